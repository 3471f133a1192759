package service

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/config"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/store"
)

var Module = fx.Provide(
	func(s *store.Profiles, cfg *config.Config, l *zap.SugaredLogger) *General {
		return NewGeneral(s, cfg.BaseURL, l)
	},
)
