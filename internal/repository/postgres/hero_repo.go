package postgres

import (
	"context"

	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type heroRepository struct {
	db *gorm.DB
}

func NewHeroRepository(db *gorm.DB) *heroRepository {
	return &heroRepository{db: db}
}

func (r *heroRepository) Create(ctx context.Context, hero *domain.Hero) error {
	return r.db.WithContext(ctx).Create(hero).Error
}

func (r *heroRepository) Update(ctx context.Context, hero *domain.Hero) error {
	return r.db.WithContext(ctx).Omit("Game").Save(hero).Error
}

func (r *heroRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Hero{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *heroRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Hero, error) {
	var hero domain.Hero
	err := r.db.WithContext(ctx).First(&hero, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &hero, nil
}

func (r *heroRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Hero, error) {
	var heroes []*domain.Hero
	if len(ids) == 0 {
		return heroes, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&heroes).Error
	if err != nil {
		return nil, err
	}
	return heroes, nil
}

func (r *heroRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Hero, error) {
	var heroes []*domain.Hero
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("name_en ASC").
		Find(&heroes).Error
	if err != nil {
		return nil, err
	}
	return heroes, nil
}

func (r *heroRepository) GetAll(ctx context.Context) ([]*domain.Hero, error) {
	var heroes []*domain.Hero
	err := r.db.WithContext(ctx).Order("name_en ASC").Find(&heroes).Error
	if err != nil {
		return nil, err
	}
	return heroes, nil
}
