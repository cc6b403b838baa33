package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dom/account-store/internal/domain"
	"github.com/dom/account-store/internal/repository"
)

// Models lists every table owned by the store, in migration order.
var Models = []interface{}{
	&domain.User{},
	&domain.UserSession{},
	&domain.Game{},
	&domain.Hero{},
	&domain.Account{},
	&domain.Order{},
	&domain.SiteConfig{},
}

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db),
		Session:    NewSessionRepository(db),
		Game:       NewGameRepository(db),
		Hero:       NewHeroRepository(db),
		Account:    NewAccountRepository(db),
		Order:      NewOrderRepository(db),
		SiteConfig: NewSiteConfigRepository(db),
	}
}
