package linkhub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memWriter is a Writer holding one profile record with version checks.
type memWriter struct {
	mu      sync.Mutex
	links   []Link
	theme   string
	version int64
	calls   int
}

func (w *memWriter) UpdateLinks(_ context.Context, _ string, links []Link, version int64) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if version != w.version {
		return 0, ErrVersionConflict
	}
	w.links = cloneLinks(links)
	w.version++
	return w.version, nil
}

func (w *memWriter) UpdateTheme(_ context.Context, _ string, theme string, version int64) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if version != w.version {
		return 0, ErrVersionConflict
	}
	w.theme = theme
	w.version++
	return w.version, nil
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) UpdateLinks(ctx context.Context, username string, links []Link, version int64) (int64, error) {
	args := m.Called(ctx, username, links, version)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWriter) UpdateTheme(ctx context.Context, username, theme string, version int64) (int64, error) {
	args := m.Called(ctx, username, theme, version)
	return args.Get(0).(int64), args.Error(1)
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestEditorAddLink(t *testing.T) {
	ctx := context.Background()
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me"}, WithClock(fixedClock(1700000000000)))

	l, err := e.AddLink(ctx, "GitHub", "github.com/me", "Projects")
	require.NoError(t, err)
	assert.Equal(t, Link{ID: 1700000000000, Title: "GitHub", URL: "https://github.com/me", Category: "Projects"}, l)
	assert.Equal(t, []Link{l}, e.Links())
	assert.Equal(t, []Link{l}, w.links)
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, int64(1), e.Version())

	second, err := e.AddLink(ctx, "Blog", "http://blog.example.com", "")
	require.NoError(t, err)
	assert.NotEqual(t, l.ID, second.ID)
	assert.Len(t, e.Links(), 2)
	assert.Equal(t, second, e.Links()[1])
}

func TestEditorAddLinkValidation(t *testing.T) {
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me"})

	_, err := e.AddLink(context.Background(), "", "github.com", "")
	assert.True(t, errors.Is(err, ErrValidationFailed))
	_, err = e.AddLink(context.Background(), "x", "not a url", "")
	assert.True(t, errors.Is(err, ErrValidationFailed))

	assert.Empty(t, e.Links())
	assert.Equal(t, 0, w.calls)
}

func TestEditorEditLink(t *testing.T) {
	ctx := context.Background()
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me", Links: []Link{{ID: 1, Title: "a", URL: "https://a.com"}, {ID: 2, Title: "b", URL: "https://b.com"}}})

	got, err := e.EditLink(ctx, 1, "A", "a.org", "Work")
	require.NoError(t, err)
	assert.Equal(t, Link{ID: 1, Title: "A", URL: "https://a.org", Category: "Work"}, got)

	back, ok := e.Link(1)
	assert.True(t, ok)
	assert.Equal(t, got, back)
	assert.Equal(t, []int64{1, 2}, ids(e.Links()))

	_, err = e.EditLink(ctx, 42, "x", "x.com", "")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, w.calls)
}

func TestEditorDeleteLinkIdempotent(t *testing.T) {
	ctx := context.Background()
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me", Links: []Link{{ID: 1}, {ID: 2}, {ID: 3}}})

	require.NoError(t, e.DeleteLink(ctx, 2))
	once := e.Links()
	require.NoError(t, e.DeleteLink(ctx, 2))

	assert.Equal(t, once, e.Links())
	assert.Equal(t, []int64{1, 3}, ids(once))
	assert.Equal(t, 1, w.calls)
}

func TestEditorReorder(t *testing.T) {
	ctx := context.Background()
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me", Links: []Link{{ID: 1}, {ID: 2}, {ID: 3}}})

	require.NoError(t, e.Reorder(ctx, 1, 3))
	assert.Equal(t, []int64{2, 3, 1}, ids(e.Links()))
	assert.Equal(t, []int64{2, 3, 1}, ids(w.links))

	require.NoError(t, e.Reorder(ctx, 3, 3))
	assert.Equal(t, 1, w.calls)

	assert.True(t, errors.Is(e.Reorder(ctx, 1, 99), ErrNotFound))
}

func TestEditorSetTheme(t *testing.T) {
	ctx := context.Background()
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me", Links: []Link{{ID: 1}}})
	assert.Equal(t, DefaultTheme, e.Theme())

	require.NoError(t, e.SetTheme(ctx, "purple"))
	assert.Equal(t, "purple", e.Theme())
	assert.Equal(t, "purple", w.theme)
	assert.Nil(t, w.links)

	assert.True(t, errors.Is(e.SetTheme(ctx, "neon"), ErrValidationFailed))
	assert.Equal(t, "purple", e.Theme())
}

func TestEditorRemoteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	m := &mockWriter{}
	start := []Link{{ID: 1, Title: "a", URL: "https://a.com"}, {ID: 2, Title: "b", URL: "https://b.com"}}
	e := NewEditor(m, &Profile{Username: "me", Links: start, Version: 7})

	boom := errors.New("connection reset")
	m.On("UpdateLinks", mock.Anything, "me", mock.Anything, int64(7)).Return(int64(0), boom)
	m.On("UpdateTheme", mock.Anything, "me", "blue", int64(7)).Return(int64(0), boom)

	_, err := e.AddLink(ctx, "c", "c.com", "")
	assert.True(t, errors.Is(err, ErrRemoteCallFailed))
	assert.True(t, errors.Is(err, boom))

	var rce *RemoteCallError
	assert.True(t, errors.As(err, &rce))
	assert.Equal(t, "add link", rce.Op)

	assert.True(t, errors.Is(e.Reorder(ctx, 1, 2), ErrRemoteCallFailed))
	assert.True(t, errors.Is(e.DeleteLink(ctx, 1), ErrRemoteCallFailed))
	assert.True(t, errors.Is(e.SetTheme(ctx, "blue"), ErrRemoteCallFailed))

	assert.Equal(t, start, e.Links())
	assert.Equal(t, DefaultTheme, e.Theme())
	assert.Equal(t, int64(7), e.Version())
	m.AssertNumberOfCalls(t, "UpdateLinks", 3)
}

func TestEditorVersionConflict(t *testing.T) {
	w := &memWriter{version: 3}
	e := NewEditor(w, &Profile{Username: "me", Version: 2})

	_, err := e.AddLink(context.Background(), "x", "x.com", "")
	assert.True(t, errors.Is(err, ErrVersionConflict))
	assert.False(t, errors.Is(err, ErrRemoteCallFailed))
	assert.Empty(t, e.Links())
}

func TestEditorConcurrentMutationsAreNotLost(t *testing.T) {
	ctx := context.Background()
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.AddLink(ctx, "link", "example.com", "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, e.Links(), 20)
	assert.Len(t, w.links, 20)

	seen := map[int64]bool{}
	for _, l := range e.Links() {
		assert.False(t, seen[l.ID], "duplicate id %d", l.ID)
		seen[l.ID] = true
	}
}

// blockingWriter holds every UpdateLinks call until release is closed.
type blockingWriter struct {
	memWriter
	started chan struct{}
	release chan struct{}
}

func (w *blockingWriter) UpdateLinks(ctx context.Context, username string, links []Link, version int64) (int64, error) {
	close(w.started)
	<-w.release
	return w.memWriter.UpdateLinks(ctx, username, links, version)
}

func TestEditorCloseDuringWrite(t *testing.T) {
	w := &blockingWriter{started: make(chan struct{}), release: make(chan struct{})}
	e := NewEditor(w, &Profile{Username: "me"})

	added := make(chan error, 1)
	go func() {
		_, err := e.AddLink(context.Background(), "x", "x.com", "")
		added <- err
	}()
	<-w.started

	closed := make(chan struct{})
	go func() {
		e.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close waited for the in-flight write")
	}

	close(w.release)
	require.NoError(t, <-added)

	assert.Len(t, w.links, 1)
	assert.Empty(t, e.Links())
	assert.Equal(t, int64(0), e.Version())
}

func TestEditorMutationsAfterClose(t *testing.T) {
	ctx := context.Background()
	w := &memWriter{}
	e := NewEditor(w, &Profile{Username: "me", Links: []Link{{ID: 1}, {ID: 2}}})
	e.Close()

	_, err := e.AddLink(ctx, "x", "x.com", "")
	assert.True(t, errors.Is(err, ErrEditorClosed))
	_, err = e.EditLink(ctx, 1, "x", "x.com", "")
	assert.True(t, errors.Is(err, ErrEditorClosed))
	assert.True(t, errors.Is(e.DeleteLink(ctx, 1), ErrEditorClosed))
	assert.True(t, errors.Is(e.Reorder(ctx, 1, 2), ErrEditorClosed))
	assert.True(t, errors.Is(e.SetTheme(ctx, "blue"), ErrEditorClosed))

	assert.Equal(t, 0, w.calls)
	assert.Equal(t, []int64{1, 2}, ids(e.Links()))
}
