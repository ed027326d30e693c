package subscription

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
	"github.com/VDronovVladislav/foodgram-project-react/internal/utils/storage"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/membership"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/recipe"
	"github.com/VDronovVladislav/foodgram-project-react/pkg/user"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, followerID, authorID uint, recipesLimit int) (domain.SubscriptionResponse, error)
		Unsubscribe(ctx context.Context, followerID, authorID uint) error
		GetSubscriptions(ctx context.Context, followerID uint, page domain.PaginationRequest, recipesLimit int) ([]domain.SubscriptionResponse, int64, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
		recipeRepository       recipe.RecipeRepository
		subscriptions          membership.Repository
		storage                storage.Storage
	}
)

func NewSubscriptionService(
	subscriptionRepository SubscriptionRepository,
	userRepository user.UserRepository,
	recipeRepository recipe.RecipeRepository,
	subscriptions membership.Repository,
	storage storage.Storage,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
		recipeRepository:       recipeRepository,
		subscriptions:          subscriptions,
		storage:                storage,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, followerID, authorID uint, recipesLimit int) (domain.SubscriptionResponse, error) {
	author, err := s.getAuthor(ctx, authorID)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	if followerID == authorID {
		return domain.SubscriptionResponse{}, domain.NewValidationError(domain.FieldNonField, domain.ErrSelfSubscription)
	}

	if err := s.subscriptions.Add(ctx, followerID, authorID); err != nil {
		if errors.Is(err, membership.ErrAlreadyExists) {
			return domain.SubscriptionResponse{}, domain.NewValidationError(domain.FieldNonField, domain.ErrAlreadySubscribed)
		}
		return domain.SubscriptionResponse{}, err
	}

	res, err := s.toResponses(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.SubscriptionResponse{}, err
	}
	return res[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, followerID, authorID uint) error {
	if _, err := s.getAuthor(ctx, authorID); err != nil {
		return err
	}
	return s.subscriptions.Remove(ctx, followerID, authorID)
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, followerID uint, page domain.PaginationRequest, recipesLimit int) ([]domain.SubscriptionResponse, int64, error) {
	authors, count, err := s.subscriptionRepository.GetSubscribedAuthors(ctx, followerID, page)
	if err != nil {
		return nil, 0, err
	}

	res, err := s.toResponses(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return res, count, nil
}

func (s *subscriptionService) getAuthor(ctx context.Context, id uint) (*entities.User, error) {
	author, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return author, nil
}

// toResponses builds subscribed author profiles. recipesLimit <= 0 embeds
// every recipe of the author.
func (s *subscriptionService) toResponses(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.SubscriptionResponse, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipeRepository.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]domain.SubscriptionResponse, 0, len(authors))
	for _, a := range authors {
		recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}

		short := make([]domain.RecipeShortResponse, 0, len(recipes))
		for _, r := range recipes {
			short = append(short, recipe.ToShortResponse(r, s.storage))
		}
		res = append(res, domain.SubscriptionResponse{
			UserResponse: user.ToResponse(a, true),
			Recipes:      short,
			RecipesCount: counts[a.ID],
		})
	}
	return res, nil
}
