package postgres

import (
	"context"
	"errors"

	"github.com/dom/account-store/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type siteConfigRepository struct {
	db *gorm.DB
}

func NewSiteConfigRepository(db *gorm.DB) *siteConfigRepository {
	return &siteConfigRepository{db: db}
}

func (r *siteConfigRepository) Get(ctx context.Context) (*domain.SiteConfig, error) {
	var cfg domain.SiteConfig
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save upserts the single settings row.
func (r *siteConfigRepository) Save(ctx context.Context, cfg *domain.SiteConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.SiteConfig
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing).Error
		switch {
		case err == nil:
			cfg.ID = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			if cfg.ID == uuid.Nil {
				cfg.ID = uuid.New()
			}
		default:
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(cfg).Error
	})
}
