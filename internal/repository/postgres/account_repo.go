package postgres

import (
	"context"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Omit("Game").Create(account).Error
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Omit("Game").Save(account).Error
}

func (r *accountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&domain.Account{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Preload("Game").
		First(&account, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, filter repository.AccountFilter) ([]*domain.Account, error) {
	var accounts []*domain.Account
	q := r.db.WithContext(ctx).Preload("Game")
	if filter.GameID != nil {
		q = q.Where("game_id = ?", *filter.GameID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	err := q.Order("created_at DESC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetActiveByGameID returns active listings oldest first so result order is
// stable across requests.
func (r *accountRepository) GetActiveByGameID(ctx context.Context, gameID uuid.UUID) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND status = ?", gameID, domain.AccountStatusActive).
		Order("created_at ASC, id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) GetActive(ctx context.Context) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.AccountStatusActive).
		Order("created_at ASC, id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) GetRandomActive(ctx context.Context) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).
		Preload("Game").
		Where("status = ?", domain.AccountStatusActive).
		Order("random()").
		Take(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) CountActiveByGame(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		GameID uuid.UUID
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Account{}).
		Select("game_id, COUNT(*) AS count").
		Where("status = ?", domain.AccountStatusActive).
		Group("game_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.GameID] = row.Count
	}
	return counts, nil
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Account{}).Count(&count).Error
	return count, err
}
