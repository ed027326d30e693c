// Package membership stores uniqueness-constrained (owner, target) pairs such
// as favorites, shopping-cart entries and subscriptions.
package membership

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrAlreadyExists = errors.New("membership already exists")

type (
	Repository interface {
		Add(ctx context.Context, owner, target uint) error
		Remove(ctx context.Context, owner, target uint) error
		Exists(ctx context.Context, owner, target uint) (bool, error)
		Marked(ctx context.Context, owner uint, targets []uint) (map[uint]bool, error)
	}

	// Store is a Repository over the join table of T. ownerColumn and
	// targetColumn must be covered by a unique index.
	Store[T any] struct {
		db           *gorm.DB
		ownerColumn  string
		targetColumn string
		build        func(owner, target uint) *T
	}
)

func NewStore[T any](db *gorm.DB, ownerColumn, targetColumn string, build func(owner, target uint) *T) *Store[T] {
	return &Store[T]{
		db:           db,
		ownerColumn:  ownerColumn,
		targetColumn: targetColumn,
		build:        build,
	}
}

func (s *Store[T]) pair(tx *gorm.DB, owner, target uint) *gorm.DB {
	return tx.Model(new(T)).
		Where(s.ownerColumn+" = ?", owner).
		Where(s.targetColumn+" = ?", target)
}

// Add inserts the pair. The count check gives the common case a clean error;
// the unique index catches concurrent inserts that pass it.
func (s *Store[T]) Add(ctx context.Context, owner, target uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := s.pair(tx, owner, target).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}

		if err := tx.Create(s.build(owner, target)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyExists
			}
			return err
		}
		return nil
	})
}

func (s *Store[T]) Remove(ctx context.Context, owner, target uint) error {
	return s.db.WithContext(ctx).
		Where(s.ownerColumn+" = ?", owner).
		Where(s.targetColumn+" = ?", target).
		Delete(new(T)).Error
}

func (s *Store[T]) Exists(ctx context.Context, owner, target uint) (bool, error) {
	var count int64
	if err := s.pair(s.db.WithContext(ctx), owner, target).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Marked reports which of targets are paired with owner.
func (s *Store[T]) Marked(ctx context.Context, owner uint, targets []uint) (map[uint]bool, error) {
	marked := make(map[uint]bool, len(targets))
	if owner == 0 || len(targets) == 0 {
		return marked, nil
	}

	var ids []uint
	if err := s.db.WithContext(ctx).
		Model(new(T)).
		Where(s.ownerColumn+" = ?", owner).
		Where(s.targetColumn+" IN ?", targets).
		Pluck(s.targetColumn, &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}
