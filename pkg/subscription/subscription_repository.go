package subscription

import (
	"context"

	"gorm.io/gorm"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
	"github.com/VDronovVladislav/foodgram-project-react/entities"
)

type (
	SubscriptionRepository interface {
		GetSubscribedAuthors(ctx context.Context, followerID uint, page domain.PaginationRequest) ([]*entities.User, int64, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetSubscribedAuthors lists the authors followerID follows, most recent
// subscription first.
func (r *subscriptionRepository) GetSubscribedAuthors(ctx context.Context, followerID uint, page domain.PaginationRequest) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Subscribe{}).
		Where("follower_id = ?", followerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN subscribes ON subscribes.author_id = users.id").
		Where("subscribes.follower_id = ?", followerID).
		Order("subscribes.created_at desc").
		Order("subscribes.id desc").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, count, nil
}
