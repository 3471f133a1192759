package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the LinkHub API. It matches the domain
// sentinel errors with errors.Is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "linkhub api: " + http.StatusText(e.Status)
	}
	return "linkhub api: " + e.Message
}

// Is matches on the response's error code. Responses without one fall back to
// the status, except 409 which is ambiguous without a code.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case models.CodeValidationFailed:
		return target == linkhub.ErrValidationFailed
	case models.CodeUnauthenticated, models.CodeUnauthorized:
		return target == linkhub.ErrUnauthorized
	case models.CodeNotFound:
		return target == linkhub.ErrNotFound
	case models.CodeUsernameTaken:
		return target == linkhub.ErrUsernameTaken
	case models.CodeVersionConflict:
		return target == linkhub.ErrVersionConflict
	case models.CodeRemoteCall, models.CodeInternal:
		return target == linkhub.ErrRemoteCallFailed
	}

	switch e.Status {
	case http.StatusBadRequest:
		return target == linkhub.ErrValidationFailed
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == linkhub.ErrUnauthorized
	case http.StatusNotFound:
		return target == linkhub.ErrNotFound
	case http.StatusConflict:
		return false
	}
	return e.Status >= http.StatusInternalServerError && target == linkhub.ErrRemoteCallFailed
}

type Option func(*Client)

// WithToken authenticates every request with a bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.r.SetAuthToken(token)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.r.SetTimeout(d) }
}

// Client talks to the LinkHub HTTP API.
type Client struct {
	r *resty.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		r: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json").
			SetTimeout(defaultTimeout),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/ping", nil, nil)
	return err
}

func (c *Client) Themes(ctx context.Context) ([]models.ThemeResp, error) {
	var out []models.ThemeResp
	_, err := c.do(ctx, "list themes", http.MethodGet, "/themes", nil, &out)
	return out, err
}

func (c *Client) Profiles(ctx context.Context, userID string, limit int) ([]models.ProfileResp, error) {
	var out []models.ProfileResp
	req := c.r.R().SetContext(ctx).SetResult(&out).SetError(&models.ErrorResp{})
	if userID != "" {
		req.SetQueryParam("user_id", userID)
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	resp, err := req.Get("/profiles")
	return out, check("list profiles", resp, err)
}

func (c *Client) Profile(ctx context.Context, username string, f linkhub.Filter) (*models.ProfileViewResp, error) {
	out := &models.ProfileViewResp{}
	req := c.r.R().SetContext(ctx).SetResult(out).SetError(&models.ErrorResp{}).
		SetPathParam("username", username)
	if f.Search != "" {
		req.SetQueryParam("search", f.Search)
	}
	if f.Field != "" {
		req.SetQueryParam("field", string(f.Field))
	}
	if f.Category != "" {
		req.SetQueryParam("category", f.Category)
	}
	resp, err := req.Get("/profiles/{username}")
	if err := check("get profile", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ShareURL(ctx context.Context, username string) (string, error) {
	out := models.ShareResp{}
	_, err := c.do(ctx, "share profile", http.MethodGet, "/profiles/"+pathEscape(username)+"/share", nil, &out)
	return out.URL, err
}

func (c *Client) Availability(ctx context.Context, username string) (*models.AvailabilityResp, error) {
	out := &models.AvailabilityResp{}
	if _, err := c.do(ctx, "check username", http.MethodGet, "/usernames/"+pathEscape(username)+"/availability", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UsernameExists satisfies linkhub.ExistsFunc.
func (c *Client) UsernameExists(ctx context.Context, username string) (bool, error) {
	a, err := c.Availability(ctx, username)
	if err != nil {
		return false, err
	}
	return !a.Available, nil
}

func (c *Client) Me(ctx context.Context) (*models.MeResp, error) {
	out := &models.MeResp{}
	if _, err := c.do(ctx, "me", http.MethodGet, "/me", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	_, err := c.do(ctx, "sign out", http.MethodPost, "/auth/sign-out", nil, nil)
	return err
}

func (c *Client) CreateProfile(ctx context.Context, req models.ProfileCreateReq) (*models.ProfileResp, error) {
	out := &models.ProfileResp{}
	if _, err := c.do(ctx, "create profile", http.MethodPost, "/profiles", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddLink(ctx context.Context, username string, req models.LinkReq) (*models.LinkResp, error) {
	out := &models.LinkResp{}
	if _, err := c.do(ctx, "add link", http.MethodPost, linksPath(username), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EditLink(ctx context.Context, username string, id int64, req models.LinkReq) (*models.LinkResp, error) {
	out := &models.LinkResp{}
	if _, err := c.do(ctx, "edit link", http.MethodPatch, linksPath(username)+"/"+strconv.FormatInt(id, 10), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteLink(ctx context.Context, username string, id int64) error {
	_, err := c.do(ctx, "delete link", http.MethodDelete, linksPath(username)+"/"+strconv.FormatInt(id, 10), nil, nil)
	return err
}

func (c *Client) Reorder(ctx context.Context, username string, fromID, toID int64) ([]models.LinkResp, error) {
	var out []models.LinkResp
	_, err := c.do(ctx, "reorder links", http.MethodPost, linksPath(username)+"/reorder", models.ReorderReq{FromID: fromID, ToID: toID}, &out)
	return out, err
}

func (c *Client) SetTheme(ctx context.Context, username, theme string) (*models.ThemeResp, error) {
	out := &models.ThemeResp{}
	if _, err := c.do(ctx, "set theme", http.MethodPut, "/profiles/"+pathEscape(username)+"/theme", models.ThemeReq{Theme: theme}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, result interface{}) (*resty.Response, error) {
	req := c.r.R().SetContext(ctx).SetError(&models.ErrorResp{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	return resp, check(op, resp, err)
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &linkhub.RemoteCallError{Op: op, Err: err}
	}
	if resp.IsSuccess() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode()}
	if e, ok := resp.Error().(*models.ErrorResp); ok && e != nil {
		apiErr.Code = e.Code
		apiErr.Message = e.Message
	}
	return apiErr
}

func linksPath(username string) string {
	return "/profiles/" + pathEscape(username) + "/links"
}

func pathEscape(s string) string {
	return url.PathEscape(strings.TrimSpace(s))
}
