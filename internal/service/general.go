package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/store"
)

const (
	maxRecent   = 50
	readTimeout = 10 * time.Second
)

// Store is the profile table as the service uses it.
type Store interface {
	linkhub.Writer
	Select(ctx context.Context, q store.Query) ([]linkhub.Profile, error)
	SelectOne(ctx context.Context, username string) (*linkhub.Profile, error)
	Exists(ctx context.Context, username string) (bool, error)
	Insert(ctx context.Context, p *linkhub.Profile) error
}

type (
	NewLink struct {
		Title    string
		URL      string
		Category string
	}

	// View is a profile as rendered for one visitor and one filter.
	View struct {
		Profile    linkhub.Profile
		Theme      linkhub.Theme
		Links      []linkhub.Link
		Groups     []linkhub.Group
		Categories []string
		IsOwner    bool
		ShareURL   string
	}
)

type General struct {
	store   Store
	logger  *zap.SugaredLogger
	baseURL string
	locks   *keyedMutex
	reads   singleflight.Group
	now     func() time.Time
}

func NewGeneral(s Store, baseURL string, l *zap.SugaredLogger) *General {
	return &General{
		store:   s,
		logger:  l,
		baseURL: strings.TrimRight(baseURL, "/"),
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

// Get loads one profile. Concurrent loads of the same username share one query,
// which runs detached from any single caller so one caller giving up does not
// fail the others.
func (s *General) Get(ctx context.Context, username string) (*linkhub.Profile, error) {
	username = linkhub.NormalizeUsername(username)
	ch := s.reads.DoChan(username, func() (interface{}, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), readTimeout)
		defer cancel()
		return s.store.SelectOne(readCtx, username)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		if !errors.Is(res.Err, linkhub.ErrNotFound) {
			s.logger.Errorw("load profile", "username", username, "error", res.Err)
		}
		return nil, res.Err
	}
	p := *res.Val.(*linkhub.Profile)
	p.Links = append([]linkhub.Link{}, p.Links...)
	return &p, nil
}

func (s *General) View(ctx context.Context, username, viewerID string, f linkhub.Filter) (*View, error) {
	p, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	projected := linkhub.Project(p.Links, f)
	return &View{
		Profile:    *p,
		Theme:      linkhub.ResolveTheme(p.Theme),
		Links:      projected,
		Groups:     linkhub.GroupByCategory(projected),
		Categories: linkhub.UsedCategories(p.Links),
		IsOwner:    p.OwnedBy(viewerID),
		ShareURL:   s.ShareURL(p.Username),
	}, nil
}

func (s *General) ShareURL(username string) string {
	return s.baseURL + "/profile/" + linkhub.NormalizeUsername(username)
}

// ListByUser returns the profiles owned by userID, newest first.
func (s *General) ListByUser(ctx context.Context, userID string) ([]linkhub.Profile, error) {
	if userID == "" {
		return nil, errors.Wrap(linkhub.ErrValidationFailed, "user id is required")
	}
	ps, err := s.store.Select(ctx, store.Query{UserID: userID})
	if err != nil {
		s.logger.Errorw("list profiles", "user_id", userID, "error", err)
		return nil, err
	}
	return ps, nil
}

func (s *General) Recent(ctx context.Context, limit int) ([]linkhub.Profile, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	ps, err := s.store.Select(ctx, store.Query{Limit: uint64(limit)})
	if err != nil {
		s.logger.Errorw("list recent profiles", "error", err)
		return nil, err
	}
	return ps, nil
}

// CheckAvailability validates raw and reports whether the normalized username is free.
func (s *General) CheckAvailability(ctx context.Context, raw string) (string, bool, error) {
	username, err := linkhub.ValidateUsername(raw)
	if err != nil {
		return "", false, err
	}
	exists, err := s.store.Exists(ctx, username)
	if err != nil {
		s.logger.Errorw("check username", "username", username, "error", err)
		return username, false, &linkhub.RemoteCallError{Op: "check username", Err: err}
	}
	return username, !exists, nil
}

// Create inserts a new profile owned by userID. The availability pre-check only
// gives an early answer; the store's unique index decides.
func (s *General) Create(ctx context.Context, userID, rawUsername, theme string, links []NewLink) (*linkhub.Profile, error) {
	if userID == "" {
		return nil, errors.Wrap(linkhub.ErrUnauthorized, "sign in to create a profile")
	}
	username, err := linkhub.ValidateUsername(rawUsername)
	if err != nil {
		return nil, err
	}
	if theme == "" {
		theme = linkhub.DefaultTheme
	}
	if _, ok := linkhub.LookupTheme(theme); !ok {
		return nil, errors.Wrapf(linkhub.ErrValidationFailed, "unknown theme %q", theme)
	}
	if len(links) == 0 {
		return nil, errors.Wrap(linkhub.ErrValidationFailed, "add at least one link")
	}
	validated := make([]linkhub.Link, len(links))
	for i, l := range links {
		if validated[i], err = linkhub.ValidateLink(l.Title, l.URL, l.Category); err != nil {
			return nil, errors.Wrapf(err, "link %d", i+1)
		}
	}

	taken, err := s.store.Exists(ctx, username)
	if err != nil {
		s.logger.Errorw("check username", "username", username, "error", err)
		return nil, &linkhub.RemoteCallError{Op: "check username", Err: err}
	}
	if taken {
		return nil, errors.Wrapf(linkhub.ErrUsernameTaken, "username %q", username)
	}

	p := &linkhub.Profile{
		Username: username,
		UserID:   userID,
		Links:    linkhub.AssignIDs(validated, s.now()),
		Theme:    theme,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		if errors.Is(err, linkhub.ErrUsernameTaken) {
			return nil, err
		}
		s.logger.Errorw("create profile", "username", username, "error", err)
		return nil, &linkhub.RemoteCallError{Op: "create profile", Err: err}
	}
	s.logger.Infow("profile created", "username", username, "user_id", userID)
	return p, nil
}

func (s *General) AddLink(ctx context.Context, userID, username string, l NewLink) (linkhub.Link, error) {
	var out linkhub.Link
	err := s.edit(ctx, userID, username, "add link", func(e *linkhub.Editor) (err error) {
		out, err = e.AddLink(ctx, l.Title, l.URL, l.Category)
		return err
	})
	return out, err
}

func (s *General) EditLink(ctx context.Context, userID, username string, id int64, l NewLink) (linkhub.Link, error) {
	var out linkhub.Link
	err := s.edit(ctx, userID, username, "edit link", func(e *linkhub.Editor) (err error) {
		out, err = e.EditLink(ctx, id, l.Title, l.URL, l.Category)
		return err
	})
	return out, err
}

func (s *General) DeleteLink(ctx context.Context, userID, username string, id int64) error {
	return s.edit(ctx, userID, username, "delete link", func(e *linkhub.Editor) error {
		return e.DeleteLink(ctx, id)
	})
}

// Reorder moves fromID to toID's position and returns the resulting order.
func (s *General) Reorder(ctx context.Context, userID, username string, fromID, toID int64) ([]linkhub.Link, error) {
	var out []linkhub.Link
	err := s.edit(ctx, userID, username, "reorder links", func(e *linkhub.Editor) error {
		if err := e.Reorder(ctx, fromID, toID); err != nil {
			return err
		}
		out = e.Links()
		return nil
	})
	return out, err
}

func (s *General) SetTheme(ctx context.Context, userID, username, theme string) error {
	return s.edit(ctx, userID, username, "set theme", func(e *linkhub.Editor) error {
		return e.SetTheme(ctx, theme)
	})
}

// edit runs fn on a fresh editor for username while holding that username's lock.
func (s *General) edit(ctx context.Context, userID, username, op string, fn func(*linkhub.Editor) error) error {
	username = linkhub.NormalizeUsername(username)
	unlock := s.locks.Lock(username)
	defer unlock()

	p, err := s.store.SelectOne(ctx, username)
	if err != nil {
		if !errors.Is(err, linkhub.ErrNotFound) {
			s.logger.Errorw(op, "username", username, "error", err)
			return &linkhub.RemoteCallError{Op: op, Err: err}
		}
		return err
	}
	if !p.OwnedBy(userID) {
		return errors.Wrapf(linkhub.ErrUnauthorized, "%s on %q", op, username)
	}

	e := linkhub.NewEditor(s.store, p, linkhub.WithClock(s.now))
	defer e.Close()

	if err := fn(e); err != nil {
		if errors.Is(err, linkhub.ErrRemoteCallFailed) || errors.Is(err, linkhub.ErrVersionConflict) {
			s.logger.Errorw(op, "username", username, "error", err)
		} else {
			s.logger.Debugw(op, "username", username, "error", err)
		}
		return err
	}
	s.logger.Debugw(op, "username", username, "version", e.Version())
	return nil
}
