package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/client"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/prefs"
)

type App struct {
	APIURL    string
	Token     string
	PrefsPath string
	Timeout   time.Duration

	logger *zap.SugaredLogger
}

func NewRootCmd() *cobra.Command {
	app := &App{logger: zap.NewNop().Sugar()}

	cmd := &cobra.Command{
		Use:          "linkhub",
		Short:        "LinkHub command line client",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Browse a public profile
  linkhub profile show jane --search github

  # Create your own (needs LINKHUB_TOKEN)
  linkhub profile create jane --link "GitHub|github.com/jane|Projects"

  # Switch the terminal rendering between light and dark
  linkhub ui toggle
`),
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api", envOr("LINKHUB_API_URL", "http://localhost:1323"), "LinkHub API base URL")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("LINKHUB_TOKEN", ""), "Session token issued by the identity provider")
	cmd.PersistentFlags().StringVar(&app.PrefsPath, "prefs", envOr("LINKHUB_PREFS", defaultPrefsPath()), "Path to the UI preferences file (.yaml)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 10*time.Second, "Request timeout")

	cmd.AddCommand(newThemesCmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newLinksCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newUsernameCmd(app))
	cmd.AddCommand(newUICmd(app))

	return cmd
}

func (app *App) client() *client.Client {
	return client.New(app.APIURL, client.WithToken(app.Token), client.WithTimeout(app.Timeout))
}

func (app *App) prefs() (*prefs.Store, error) {
	system := prefs.ModeLight
	if lipgloss.HasDarkBackground() {
		system = prefs.ModeDark
	}
	return prefs.Open(app.PrefsPath, system, app.logger)
}

// renderer returns the palette for the stored UI mode. An unreadable prefs
// file falls back to the terminal's own background.
func (app *App) renderer() renderer {
	st, err := app.prefs()
	if err != nil {
		return newRenderer(lipgloss.HasDarkBackground())
	}
	return newRenderer(st.Mode() == prefs.ModeDark)
}

func (app *App) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), app.Timeout)
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "linkhub-prefs.yaml"
	}
	return filepath.Join(dir, "linkhub", "prefs.yaml")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeLine(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}
