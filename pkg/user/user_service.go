package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils/mailing"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/jwt"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/membership"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, userID uint) error
		Authenticate(ctx context.Context, token string) (uint, error)
		GetUsers(ctx context.Context, viewerID uint, page domain.PaginationRequest) ([]domain.UserResponse, int64, error)
		GetUserByID(ctx context.Context, viewerID, id uint) (domain.UserResponse, error)
		Me(ctx context.Context, userID uint) (domain.UserResponse, error)
		UpdateMe(ctx context.Context, userID uint, req domain.UpdateUserRequest) (domain.UserResponse, error)
		SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		subscriptions  membership.Repository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
	}
)

func NewUserService(
	userRepository UserRepository,
	subscriptions membership.Repository,
	jwtService jwt.JWTService,
	mailer mailing.Mailer,
) UserService {
	return &userService{
		userRepository: userRepository,
		subscriptions:  subscriptions,
		jwtService:     jwtService,
		mailer:         mailer,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkUnique(ctx, req.Email, req.Username); err != nil {
		return domain.RegisterResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, domain.ErrHashPassword
	}

	user, err := s.userRepository.RegisterUser(ctx, &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration
			if vErr := s.checkUnique(ctx, req.Email, req.Username); vErr != nil {
				return domain.RegisterResponse{}, vErr
			}
		}
		return domain.RegisterResponse{}, err
	}

	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", user.Username, domain.MessageWelcomeMailBodyIntro)
	if err := s.mailer.SendMail(user.Email, domain.MessageWelcomeMailSubject, body); err != nil {
		log.Errorf("failed to send welcome mail to user %d: %v", user.ID, err)
	}

	return domain.RegisterResponse{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) checkUnique(ctx context.Context, email, username string) error {
	var vErr domain.ValidationError

	emailTaken, err := s.userRepository.CheckEmail(ctx, email)
	if err != nil {
		return err
	}
	if emailTaken {
		vErr.Add("email", domain.ErrEmailTaken.Error())
	}

	usernameTaken, err := s.userRepository.CheckUsername(ctx, username, 0)
	if err != nil {
		return err
	}
	if usernameTaken {
		vErr.Add("username", domain.ErrUsernameTaken.Error())
	}

	if len(vErr.Fields) > 0 {
		return &vErr
	}
	return nil
}

// Login returns the user's live token, issuing a new one when there is none
// or the stored one no longer validates.
func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.NewValidationError(domain.FieldNonField, domain.ErrInvalidCredentials)
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.NewValidationError(domain.FieldNonField, domain.ErrInvalidCredentials)
	}

	stored, err := s.userRepository.GetTokenByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.LoginResponse{}, err
	}
	if stored != nil {
		if _, _, err := s.jwtService.GetUserIDByToken(stored.Key); err == nil {
			return domain.LoginResponse{AuthToken: stored.Key}, nil
		}
	}

	token, tokenID, err := s.jwtService.GenerateTokenUser(user.ID)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	if err := s.userRepository.SaveToken(ctx, &entities.AuthToken{
		UserID:  user.ID,
		Key:     token,
		TokenID: tokenID,
	}); err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Logout(ctx context.Context, userID uint) error {
	return s.userRepository.DeleteToken(ctx, userID)
}

// Authenticate resolves a bearer token to its user id. A token whose row was
// deleted by logout is rejected even if its signature and expiry are fine.
func (s *userService) Authenticate(ctx context.Context, token string) (uint, error) {
	userID, tokenID, err := s.jwtService.GetUserIDByToken(token)
	if err != nil {
		return 0, err
	}

	ok, err := s.userRepository.CheckToken(ctx, userID, tokenID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ErrTokenRevoked
	}
	return userID, nil
}

func (s *userService) GetUsers(ctx context.Context, viewerID uint, page domain.PaginationRequest) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.subscriptions.Marked(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, ToResponse(u, subscribed[u.ID]))
	}
	return res, count, nil
}

func (s *userService) GetUserByID(ctx context.Context, viewerID, id uint) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	subscribed := false
	if viewerID != 0 {
		subscribed, err = s.subscriptions.Exists(ctx, viewerID, id)
		if err != nil {
			return domain.UserResponse{}, err
		}
	}
	return ToResponse(user, subscribed), nil
}

func (s *userService) Me(ctx context.Context, userID uint) (domain.UserResponse, error) {
	return s.GetUserByID(ctx, userID, userID)
}

func (s *userService) UpdateMe(ctx context.Context, userID uint, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.userRepository.CheckUsername(ctx, *req.Username, userID)
		if err != nil {
			return domain.UserResponse{}, err
		}
		if taken {
			return domain.UserResponse{}, domain.NewValidationError("username", domain.ErrUsernameTaken)
		}
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.NewValidationError("username", domain.ErrUsernameTaken)
		}
		return domain.UserResponse{}, err
	}
	return ToResponse(user, false), nil
}

func (s *userService) SetPassword(ctx context.Context, userID uint, req domain.SetPasswordRequest) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.NewValidationError("current_password", domain.ErrWrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrHashPassword
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hash))
}

func ToResponse(u *entities.User, isSubscribed bool) domain.UserResponse {
	return domain.UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}
