package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/config"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/db"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/identity"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/logger"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/proto"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/service"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/store"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/transport"
)

var app = fx.Options(
	config.Module,
	logger.Module,
	db.Module,
	store.Module,
	service.Module,
	identity.Module,
	transport.Module,
	proto.Module,
)

func main() {
	fx.New(
		app,
		fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Desugar()}
		}),
	).Run()
}
