package linkhub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// Writer persists a profile's links or theme. Writes are compare-and-swap on the
// profile version: they succeed only if the stored version equals version, and
// return the new version.
type Writer interface {
	UpdateLinks(ctx context.Context, username string, links []Link, version int64) (int64, error)
	UpdateTheme(ctx context.Context, username, theme string, version int64) (int64, error)
}

// Editor owns the in-memory link list of one profile and mirrors every mutation to
// a Writer. Mutations are serialized; new state is applied only after the write
// is confirmed, so a failed write leaves the editor unchanged. Close does not wait
// for an in-flight write, and that write's result is dropped when it arrives.
type Editor struct {
	mu       sync.Mutex
	w        Writer
	now      func() time.Time
	username string
	links    []Link
	theme    string
	version  int64
	closed   atomic.Bool
}

type EditorOption func(*Editor)

// WithClock overrides the clock used to derive link ids.
func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) { e.now = now }
}

func NewEditor(w Writer, p *Profile, opts ...EditorOption) *Editor {
	e := &Editor{
		w:        w,
		now:      time.Now,
		username: p.Username,
		links:    cloneLinks(p.Links),
		theme:    p.ThemeOrDefault(),
		version:  p.Version,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) Username() string { return e.username }

func (e *Editor) Links() []Link {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneLinks(e.links)
}

func (e *Editor) Link(id int64) (Link, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := indexOf(e.links, id); i >= 0 {
		return e.links[i], true
	}
	return Link{}, false
}

func (e *Editor) Theme() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme
}

func (e *Editor) Version() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Close detaches the editor from its view. Writes that complete afterwards are
// not applied to the in-memory state and later mutations fail with ErrEditorClosed.
func (e *Editor) Close() {
	e.closed.Store(true)
}

// lock acquires e.mu for a mutation.
func (e *Editor) lock() error {
	e.mu.Lock()
	if e.closed.Load() {
		e.mu.Unlock()
		return ErrEditorClosed
	}
	return nil
}

func (e *Editor) AddLink(ctx context.Context, title, url, category string) (Link, error) {
	link, err := ValidateLink(title, url, category)
	if err != nil {
		return Link{}, err
	}

	if err := e.lock(); err != nil {
		return Link{}, err
	}
	defer e.mu.Unlock()

	link.ID = nextLinkID(e.links, e.now())
	next := append(cloneLinks(e.links), link)
	if err := e.commitLinks(ctx, "add link", next); err != nil {
		return Link{}, err
	}
	return link, nil
}

// EditLink replaces the fields of link id in place.
func (e *Editor) EditLink(ctx context.Context, id int64, title, url, category string) (Link, error) {
	link, err := ValidateLink(title, url, category)
	if err != nil {
		return Link{}, err
	}

	if err := e.lock(); err != nil {
		return Link{}, err
	}
	defer e.mu.Unlock()

	i := indexOf(e.links, id)
	if i < 0 {
		return Link{}, errors.Wrapf(ErrNotFound, "link %d", id)
	}
	link.ID = id
	next := cloneLinks(e.links)
	next[i] = link
	if err := e.commitLinks(ctx, "edit link", next); err != nil {
		return Link{}, err
	}
	return link, nil
}

// DeleteLink removes link id. Deleting an absent id is a no-op and issues no write.
func (e *Editor) DeleteLink(ctx context.Context, id int64) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	i := indexOf(e.links, id)
	if i < 0 {
		return nil
	}
	next := make([]Link, 0, len(e.links)-1)
	next = append(next, e.links[:i]...)
	next = append(next, e.links[i+1:]...)
	return e.commitLinks(ctx, "delete link", next)
}

// Reorder moves link fromID to the index currently held by toID.
func (e *Editor) Reorder(ctx context.Context, fromID, toID int64) error {
	if err := e.lock(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	next, moved, err := Move(e.links, fromID, toID)
	if err != nil || !moved {
		return err
	}
	return e.commitLinks(ctx, "reorder links", next)
}

func (e *Editor) SetTheme(ctx context.Context, themeID string) error {
	if _, ok := LookupTheme(themeID); !ok {
		return invalid("unknown theme %q", themeID)
	}

	if err := e.lock(); err != nil {
		return err
	}
	defer e.mu.Unlock()

	version, err := e.w.UpdateTheme(ctx, e.username, themeID, e.version)
	if err != nil {
		return remoteError("set theme", err)
	}
	if e.closed.Load() {
		return nil
	}
	e.theme = themeID
	e.version = version
	return nil
}

// commitLinks must be called with e.mu held.
func (e *Editor) commitLinks(ctx context.Context, op string, next []Link) error {
	version, err := e.w.UpdateLinks(ctx, e.username, next, e.version)
	if err != nil {
		return remoteError(op, err)
	}
	if e.closed.Load() {
		return nil
	}
	e.links = next
	e.version = version
	return nil
}

// remoteError keeps not-found and version conflicts recognizable and reports
// everything else as a failed remote call.
func remoteError(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
		return errors.Wrap(err, op)
	}
	return &RemoteCallError{Op: op, Err: err}
}
