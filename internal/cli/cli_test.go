package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/config"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/db"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/identity"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/service"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/store"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/transport"
)

type harness struct {
	t     *testing.T
	api   string
	token string
	prefs string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(dir, "linkhub.db"),
		JWTSecret:  "cli-secret",
		BaseURL:    "https://linkhub.test",
	}
	logger := zap.NewNop().Sugar()
	gdb, err := db.NewGormClient(cfg, logger)
	require.NoError(t, err)

	verifier := identity.NewVerifier(cfg)
	svc := service.NewGeneral(store.NewProfiles(gdb), cfg.BaseURL, logger)
	srv := httptest.NewServer(transport.NewRouter(svc, verifier, logger))
	t.Cleanup(srv.Close)

	tok, err := verifier.Issue(identity.User{ID: "user-1"}, time.Hour)
	require.NoError(t, err)
	return &harness{t: t, api: srv.URL, token: tok, prefs: filepath.Join(dir, "prefs.yaml")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	return h.runWithInput("", args...)
}

func (h *harness) runWithInput(input string, args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(input))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", h.api, "--token", h.token, "--prefs", h.prefs}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestThemesCommand(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("themes")
	for _, id := range []string{"dark", "light", "gradient"} {
		assert.Contains(t, out, id)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 9)
}

func TestProfileCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("profile", "create", "jane",
		"--link", "GitHub|github.com/jane|Projects",
		"--link", "Chess club|chess.example.com|Clubs",
		"--theme", "blue",
	)
	assert.Contains(t, out, "created @jane with 2 links")

	_, err := h.run("profile", "create", "jane", "--link", "a|a.com")
	assert.True(t, errors.Is(err, linkhub.ErrUsernameTaken), "got %v", err)

	_, err = h.run("profile", "create", "ab", "--link", "a|a.com")
	assert.True(t, errors.Is(err, linkhub.ErrValidationFailed), "got %v", err)

	_, err = h.run("profile", "create", "john")
	assert.True(t, errors.Is(err, linkhub.ErrValidationFailed), "got %v", err)

	out = h.mustRun("profile", "show", "jane")
	assert.Contains(t, out, "@jane")
	assert.Contains(t, out, "Blue theme")
	assert.Contains(t, out, "GitHub")
	assert.Contains(t, out, "Chess club")
	assert.Contains(t, out, "https://linkhub.test/profile/jane")

	out = h.mustRun("profile", "show", "jane", "--search", "chess", "--field", "all")
	assert.Contains(t, out, "Chess club")
	assert.NotContains(t, out, "GitHub")

	out = h.mustRun("profile", "show", "jane", "--search", "nothing-like-this")
	assert.Contains(t, out, "no links match")

	_, err = h.run("profile", "show", "nobody")
	assert.True(t, errors.Is(err, linkhub.ErrNotFound), "got %v", err)

	assert.Equal(t, "https://linkhub.test/profile/jane\n", h.mustRun("profile", "share", "jane"))

	out = h.mustRun("profile", "list", "--user", "user-1")
	assert.Contains(t, out, "jane")
	assert.Contains(t, out, "2 links")
}

func TestLinkCommands(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "jane", "--link", "GitHub|github.com/jane|Projects")

	out := h.mustRun("links", "add", "jane", "--title", "Blog", "--url", "blog.example.com", "--category", "Personal")
	assert.Contains(t, out, "Blog")
	assert.Contains(t, out, "https://blog.example.com")

	view := h.view("jane")
	require.Len(t, view.Profile.Links, 2)
	first, blog := view.Profile.Links[0].ID, view.Profile.Links[1].ID

	out = h.mustRun("links", "move", "jane", itoa(blog), itoa(first))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Blog")

	out = h.mustRun("links", "edit", "jane", itoa(blog), "--title", "My blog", "--url", "blog.example.com/me")
	assert.Contains(t, out, "My blog")

	assert.Contains(t, h.mustRun("links", "rm", "jane", itoa(first)), "deleted link")

	_, err := h.run("links", "rm", "jane", "abc")
	assert.True(t, errors.Is(err, linkhub.ErrValidationFailed))

	assert.Contains(t, h.mustRun("theme", "set", "jane", "purple"), "Purple")
	_, err = h.run("theme", "set", "jane", "neon")
	assert.True(t, errors.Is(err, linkhub.ErrValidationFailed))

	view = h.view("jane")
	require.Len(t, view.Profile.Links, 1)
	assert.Equal(t, "My blog", view.Profile.Links[0].Title)
	assert.Equal(t, "purple", view.Profile.Theme)
}

func TestUsernameCheck(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "jane", "--link", "a|a.com")

	assert.Equal(t, "jane: taken\n", h.mustRun("username", "check", "Jane"))
	assert.Equal(t, "new-name: available\n", h.mustRun("username", "check", "new-name"))
	assert.Contains(t, h.mustRun("username", "check", "ab"), "invalid")
}

func TestUsernameWatch(t *testing.T) {
	h := newHarness(t)
	h.mustRun("profile", "create", "jane", "--link", "a|a.com")

	out, err := h.runWithInput("ja\njan\nJane\n\nfresh-name\n", "username", "watch")
	require.NoError(t, err, out)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "fresh-name: available", lines[len(lines)-1])
	for _, l := range lines {
		assert.NotContains(t, l, "pending")
	}
}

func TestUICommands(t *testing.T) {
	h := newHarness(t)

	first := strings.TrimSpace(h.mustRun("ui", "show"))
	require.Contains(t, []string{"light", "dark"}, first)

	toggled := strings.TrimSpace(h.mustRun("ui", "toggle"))
	assert.NotEqual(t, first, toggled)
	assert.Equal(t, toggled, strings.TrimSpace(h.mustRun("ui", "show")))
}

func TestParseLinkFlag(t *testing.T) {
	l, err := parseLinkFlag(" GitHub | github.com/me | Projects ")
	require.NoError(t, err)
	assert.Equal(t, models.LinkReq{Title: "GitHub", URL: "github.com/me", Category: "Projects"}, l)

	l, err = parseLinkFlag("Blog|blog.example.com")
	require.NoError(t, err)
	assert.Empty(t, l.Category)

	_, err = parseLinkFlag("just-a-title")
	assert.True(t, errors.Is(err, linkhub.ErrValidationFailed))
}

func TestSwatchColor(t *testing.T) {
	assert.Equal(t, "#1a1a1a", string(swatchColor("#1a1a1a")))
	assert.Equal(t, "#6366f1", string(swatchColor("linear-gradient(135deg, #6366f1 0%, #a855f7 50%)")))
	assert.Equal(t, "", string(swatchColor("rgba(0, 0, 0, 0.9)")))
}

func (h *harness) view(username string) *models.ProfileViewResp {
	h.t.Helper()
	app := &App{APIURL: h.api, Timeout: 5 * time.Second}
	v, err := app.client().Profile(context.Background(), username, linkhub.Filter{})
	require.NoError(h.t, err)
	return v
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
