package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/config"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/identity"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/service"
)

const (
	AuthCookie = "auth_token"
	userKey    = "user"
)

var Module = fx.Options(
	fx.Provide(NewHTTPServer),
	fx.Invoke(func(*HTTPServer) {}),
)

var censoredKeys = map[string]struct{}{
	"password":   {},
	"token":      {},
	"auth_token": {},
}

type (
	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		echo     *echo.Echo
		svc      *service.General
		verifier *identity.Verifier
		logger   *zap.SugaredLogger
	}
)

func NewHTTPServer(lc fx.Lifecycle, cfg *config.Config, svc *service.General, verifier *identity.Verifier, logger *zap.SugaredLogger) *HTTPServer {
	instance := NewRouter(svc, verifier, logger)
	e := instance.echo

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.HTTPAddr()
				logger.Infow("starting HTTP server", "addr", listen)
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					logger.Fatalw("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return instance
}

// NewRouter builds the API handler without binding a listener.
func NewRouter(svc *service.General, verifier *identity.Verifier, logger *zap.SugaredLogger) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	instance := &HTTPServer{
		echo:     e,
		svc:      svc,
		verifier: verifier,
		logger:   logger,
	}

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowCredentials: true}))
	e.Use(instance.requestLogger())
	e.Use(middleware.BodyDump(instance.dumpBody))
	e.Use(middleware.Recover())
	e.Use(instance.AuthMiddleware)

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = instance.handleError

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	e.GET("/themes", instance.ThemeList)
	e.GET("/themes/:id/style.css", instance.ThemeStyle)

	e.GET("/usernames/:username/availability", instance.UsernameAvailability)

	e.GET("/me", instance.Me, RequireUser)
	e.POST("/auth/sign-out", instance.SignOut)

	profileG := e.Group("/profiles")
	profileG.GET("", instance.ProfileList)
	profileG.POST("", instance.ProfileCreate, RequireUser)
	profileG.GET("/:username", instance.ProfileView)
	profileG.GET("/:username/share", instance.ProfileShare)

	profileG.POST("/:username/links", instance.LinkCreate, RequireUser)
	profileG.POST("/:username/links/reorder", instance.LinkReorder, RequireUser)
	profileG.PATCH("/:username/links/:id", instance.LinkUpdate, RequireUser)
	profileG.DELETE("/:username/links/:id", instance.LinkDelete, RequireUser)
	profileG.PUT("/:username/theme", instance.ThemeUpdate, RequireUser)

	return instance
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// AuthMiddleware attaches the signed-in user when a token is present. A present
// but invalid token is rejected on every route.
func (s *HTTPServer) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := tokenFromRequest(c)
		if token == "" {
			return next(c)
		}
		user, err := s.verifier.Verify(token)
		if err != nil {
			s.logger.Debugw("rejected token", "path", c.Path(), "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		c.Set(userKey, user)
		return next(c)
	}
}

func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := UserFromContext(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
		}
		return next(c)
	}
}

func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
	}
	if t := c.Request().Header.Get("x-token"); t != "" {
		return t
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (s *HTTPServer) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			if v.Status >= http.StatusInternalServerError {
				s.logger.Errorw("request", fields...)
				return nil
			}
			s.logger.Infow("request", fields...)
			return nil
		},
	})
}

func (s *HTTPServer) dumpBody(c echo.Context, reqBody, _ []byte) {
	if len(reqBody) == 0 {
		return
	}
	s.logger.Debugw("request body", "uri", c.Request().RequestURI, "body", string(censorBody(reqBody)))
}

// censorBody replaces credential fields of a JSON object body.
func censorBody(b []byte) []byte {
	m := map[string]interface{}{}
	if err := json.Unmarshal(b, &m); err != nil {
		return b
	}
	censored := false
	for k := range m {
		if _, ok := censoredKeys[strings.ToLower(k)]; ok {
			m[k] = "$censored"
			censored = true
		}
	}
	if !censored {
		return b
	}
	out, err := json.Marshal(m)
	if err != nil {
		return b
	}
	return out
}

// handleError maps domain errors onto status codes.
func (s *HTTPServer) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		s.writeError(c, he.Code, codeForStatus(he.Code), msg)
		return
	}

	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Errorw("unhandled error", "path", c.Path(), "error", err)
		msg = http.StatusText(status)
	}
	s.writeError(c, status, code, msg)
}

func (s *HTTPServer) writeError(c echo.Context, status int, code, msg string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, models.ErrorResp{Code: code, Message: msg})
	}
	if err != nil {
		s.logger.Errorw("write error response", "error", err)
	}
}

// statusFor maps a domain error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, linkhub.ErrValidationFailed):
		return http.StatusBadRequest, models.CodeValidationFailed
	case errors.Is(err, linkhub.ErrUnauthorized):
		return http.StatusForbidden, models.CodeUnauthorized
	case errors.Is(err, linkhub.ErrNotFound):
		return http.StatusNotFound, models.CodeNotFound
	case errors.Is(err, linkhub.ErrUsernameTaken):
		return http.StatusConflict, models.CodeUsernameTaken
	case errors.Is(err, linkhub.ErrVersionConflict):
		return http.StatusConflict, models.CodeVersionConflict
	case errors.Is(err, linkhub.ErrRemoteCallFailed):
		return http.StatusBadGateway, models.CodeRemoteCall
	default:
		return http.StatusInternalServerError, models.CodeInternal
	}
}

// codeForStatus picks the error code for errors raised by echo or the
// middlewares, which carry only a status.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return models.CodeValidationFailed
	case http.StatusUnauthorized:
		return models.CodeUnauthenticated
	case http.StatusForbidden:
		return models.CodeUnauthorized
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return models.CodeNotFound
	default:
		return models.CodeInternal
	}
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err = c.Validate(v); err != nil {
		return err
	}
	return nil
}

func UserFromContext(c echo.Context) (*identity.User, bool) {
	user, ok := c.Get(userKey).(*identity.User)
	return user, ok && user != nil
}

func viewerID(c echo.Context) string {
	if u, ok := UserFromContext(c); ok {
		return u.ID
	}
	return ""
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return value, nil
}

func GetAndParseParam(c echo.Context, name string) (int64, error) {
	v, err := GetParam(c, name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return id, nil
}
