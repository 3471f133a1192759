package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/config"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
)

type (
	Profile struct {
		ID        string                           `gorm:"primarykey;size:36"`
		Username  string                           `gorm:"not null;size:30;uniqueIndex:uidx_profiles_username"`
		UserID    string                           `gorm:"not null;index"`
		Links     datatypes.JSONSlice[linkhub.Link] `gorm:"not null"`
		Theme     string                           `gorm:"not null;default:dark"`
		Version   int64                            `gorm:"not null;default:0"`
		CreatedAt time.Time                        `gorm:"index"`
		UpdatedAt time.Time
	}
)

func NewGormClient(cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	stdLog, err := zap.NewStdLogAt(l.Desugar(), zapcore.InfoLevel)
	if err != nil {
		return nil, errors.Wrap(err, "gorm logger")
	}
	newLogger := logger.New(stdLog, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
	})

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.PostgresDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite handle")
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Profile{}); err != nil {
		return nil, errors.Wrap(err, "migrate profile")
	}

	return db, nil
}

func ToDomain(p *Profile) *linkhub.Profile {
	links := []linkhub.Link(p.Links)
	if links == nil {
		links = []linkhub.Link{}
	}
	return &linkhub.Profile{
		ID:        p.ID,
		Username:  p.Username,
		UserID:    p.UserID,
		Links:     links,
		Theme:     p.Theme,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func FromDomain(p *linkhub.Profile) *Profile {
	links := p.Links
	if links == nil {
		links = []linkhub.Link{}
	}
	return &Profile{
		ID:        p.ID,
		Username:  p.Username,
		UserID:    p.UserID,
		Links:     datatypes.NewJSONSlice(links),
		Theme:     p.Theme,
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
