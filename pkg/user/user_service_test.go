package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/jwt"
)

// fakeUserRepository keeps users and tokens in memory.
type fakeUserRepository struct {
	users  map[uint]*entities.User
	tokens map[uint]*entities.AuthToken
	nextID uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:  map[uint]*entities.User{},
		tokens: map[uint]*entities.AuthToken{},
	}
}

func (f *fakeUserRepository) RegisterUser(_ context.Context, user *entities.User) (*entities.User, error) {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id uint) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUsers(_ context.Context, _ domain.PaginationRequest) ([]*entities.User, int64, error) {
	var res []*entities.User
	for id := uint(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, int64(len(res)), nil
}

func (f *fakeUserRepository) CheckEmail(_ context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUserRepository) CheckUsername(_ context.Context, username string, excludeID uint) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, id uint, hash string) error {
	f.users[id].Password = hash
	return nil
}

func (f *fakeUserRepository) GetTokenByUserID(_ context.Context, userID uint) (*entities.AuthToken, error) {
	t, ok := f.tokens[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeUserRepository) SaveToken(_ context.Context, token *entities.AuthToken) error {
	f.tokens[token.UserID] = token
	return nil
}

func (f *fakeUserRepository) DeleteToken(_ context.Context, userID uint) error {
	delete(f.tokens, userID)
	return nil
}

func (f *fakeUserRepository) CheckToken(_ context.Context, userID uint, tokenID string) (bool, error) {
	t, ok := f.tokens[userID]
	return ok && t.TokenID == tokenID, nil
}

type mockSubscriptions struct {
	pairs map[[2]uint]bool
}

func (m *mockSubscriptions) Add(_ context.Context, owner, target uint) error {
	m.pairs[[2]uint{owner, target}] = true
	return nil
}

func (m *mockSubscriptions) Remove(_ context.Context, owner, target uint) error {
	delete(m.pairs, [2]uint{owner, target})
	return nil
}

func (m *mockSubscriptions) Exists(_ context.Context, owner, target uint) (bool, error) {
	return m.pairs[[2]uint{owner, target}], nil
}

func (m *mockSubscriptions) Marked(_ context.Context, owner uint, targets []uint) (map[uint]bool, error) {
	res := map[uint]bool{}
	for _, t := range targets {
		if m.pairs[[2]uint{owner, t}] {
			res[t] = true
		}
	}
	return res, nil
}

type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) SendMail(toEmail, _, _ string) error {
	m.sent = append(m.sent, toEmail)
	return m.err
}

func newTestService() (*userService, *fakeUserRepository, *mockSubscriptions, *mockMailer) {
	repo := newFakeUserRepository()
	subs := &mockSubscriptions{pairs: map[[2]uint]bool{}}
	mailer := &mockMailer{}
	svc := NewUserService(repo, subs, jwt.NewJWTService("test-secret", time.Hour), mailer).(*userService)
	return svc, repo, subs, mailer
}

func register(t *testing.T, svc UserService, email, username string) domain.RegisterResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    email,
		Username: username,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return res
}

func TestRegister(t *testing.T) {
	svc, repo, _, mailer := newTestService()

	res := register(t, svc, "Chef@Example.com", "chef")

	assert.Equal(t, "chef@example.com", res.Email)
	assert.Equal(t, uint(1), res.ID)
	assert.Equal(t, []string{"chef@example.com"}, mailer.sent)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[1].Password), []byte("s3cret-pass")))
}

func TestRegisterMailFailureIsNotReturned(t *testing.T) {
	svc, _, _, mailer := newTestService()
	mailer.err = errors.New("smtp down")

	register(t, svc, "chef@example.com", "chef")
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc, "chef@example.com", "chef")

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:    "chef@example.com",
		Username: "chef",
		Password: "another",
	})

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{domain.ErrEmailTaken.Error()}, vErr.Fields["email"])
	assert.Equal(t, []string{domain.ErrUsernameTaken.Error()}, vErr.Fields["username"])
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc, "chef@example.com", "chef")
	ctx := context.Background()

	first, err := svc.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, first.AuthToken)

	second, err := svc.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, first.AuthToken, second.AuthToken)

	id, err := svc.Authenticate(ctx, first.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc, "chef@example.com", "chef")

	for _, req := range []domain.LoginRequest{
		{Email: "chef@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "s3cret-pass"},
	} {
		_, err := svc.Login(context.Background(), req)

		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, domain.FieldNonField)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _, _ := newTestService()
	user := register(t, svc, "chef@example.com", "chef")
	ctx := context.Background()

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, user.ID))

	_, err = svc.Authenticate(ctx, login.AuthToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestGetUsersMarksSubscriptions(t *testing.T) {
	svc, _, subs, _ := newTestService()
	viewer := register(t, svc, "viewer@example.com", "viewer")
	author := register(t, svc, "author@example.com", "author")
	subs.pairs[[2]uint{viewer.ID, author.ID}] = true

	users, count, err := svc.GetUsers(context.Background(), viewer.ID, domain.PaginationRequest{Page: 1, Limit: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.False(t, users[0].IsSubscribed)
	assert.True(t, users[1].IsSubscribed)

	anon, _, err := svc.GetUsers(context.Background(), 0, domain.PaginationRequest{Page: 1, Limit: 6})
	require.NoError(t, err)
	assert.False(t, anon[1].IsSubscribed)
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetUserByID(context.Background(), 0, 42)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateMe(t *testing.T) {
	svc, _, _, _ := newTestService()
	register(t, svc, "taken@example.com", "taken")
	me := register(t, svc, "me@example.com", "me")
	ctx := context.Background()

	taken := "taken"
	_, err := svc.UpdateMe(ctx, me.ID, domain.UpdateUserRequest{Username: &taken})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "username")

	first := "Julia"
	res, err := svc.UpdateMe(ctx, me.ID, domain.UpdateUserRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Julia", res.FirstName)
	assert.Equal(t, "me", res.Username)
}

func TestSetPassword(t *testing.T) {
	svc, _, _, _ := newTestService()
	me := register(t, svc, "me@example.com", "me")
	ctx := context.Background()

	err := svc.SetPassword(ctx, me.ID, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "next-pass"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "current_password")

	require.NoError(t, svc.SetPassword(ctx, me.ID, domain.SetPasswordRequest{CurrentPassword: "s3cret-pass", NewPassword: "next-pass"}))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "me@example.com", Password: "next-pass"})
	assert.NoError(t, err)
}
