package postgres

import (
	"context"

	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *gameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(ctx context.Context, game *domain.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *gameRepository) Update(ctx context.Context, game *domain.Game) error {
	return r.db.WithContext(ctx).Save(game).Error
}

// Delete removes the game. Heroes, accounts and their orders go with it
// through ON DELETE CASCADE.
func (r *gameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Game{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gameRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).First(&game, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) GetBySlug(ctx context.Context, slug string) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).First(&game, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) GetAll(ctx context.Context) ([]*domain.Game, error) {
	var games []*domain.Game
	err := r.db.WithContext(ctx).Order("name_en ASC").Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepository) SlugExists(ctx context.Context, slug string, exceptID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Game{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (r *gameRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Game{}).Count(&count).Error
	return count, err
}
