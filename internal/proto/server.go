package proto

import (
	"context"
	"encoding/json"
	"net"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/config"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/service"
)

type ProfileReaderImpl struct {
	svc    *service.General
	logger *zap.SugaredLogger
}

func NewGRPCServer(lc fx.Lifecycle, cfg *config.Config, svc *service.General, logger *zap.SugaredLogger) *ProfileReaderImpl {
	instance := &ProfileReaderImpl{svc: svc, logger: logger}

	grpcServer := grpc.NewServer()
	RegisterProfileReaderServer(grpcServer, instance)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", cfg.GRPCAddr())
			if err != nil {
				return errors.Wrap(err, "listen grpc")
			}
			logger.Infow("starting GRPC server", "addr", lis.Addr().String())
			go func() {
				if err := grpcServer.Serve(lis); err != nil {
					logger.Errorw("GRPC server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping GRPC server.")
			grpcServer.GracefulStop()
			return nil
		},
	})

	return instance
}

// GetProfile takes {username, search?, field?, category?} and returns the
// public profile view.
func (s *ProfileReaderImpl) GetProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	field, err := linkhub.ParseField(fields["field"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}
	f := linkhub.Filter{
		Search:   fields["search"].GetStringValue(),
		Field:    field,
		Category: fields["category"].GetStringValue(),
	}

	v, err := s.svc.View(ctx, fields["username"].GetStringValue(), "", f)
	if err != nil {
		return nil, toStatus(err)
	}
	return s.toStruct(models.ProfileViewResp{
		Profile:    models.ProfileToResp(&v.Profile),
		Theme:      models.ThemeToResp(v.Theme),
		Links:      models.LinksToResp(v.Links),
		Groups:     models.GroupsToResp(v.Groups),
		Categories: v.Categories,
		ShareURL:   v.ShareURL,
	})
}

// CheckUsername takes {username} and returns {username, available}.
func (s *ProfileReaderImpl) CheckUsername(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, free, err := s.svc.CheckAvailability(ctx, req.GetFields()["username"].GetStringValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return s.toStruct(models.AvailabilityResp{Username: username, Available: free})
}

// toStruct goes through the JSON form so field names match the HTTP API.
func (s *ProfileReaderImpl) toStruct(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Errorw("encode response", "error", err)
		return nil, status.Error(codes.Internal, "encode response")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		s.logger.Errorw("encode response", "error", err)
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, linkhub.ErrValidationFailed):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, linkhub.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, linkhub.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, linkhub.ErrRemoteCallFailed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
