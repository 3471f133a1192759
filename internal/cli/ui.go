package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newUICmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Light/dark rendering mode",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.prefs()
			if err != nil {
				return err
			}
			writeLine(cmd, string(st.Mode()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.prefs()
			if err != nil {
				return err
			}
			m, err := st.Toggle()
			if err != nil {
				return err
			}
			writeLine(cmd, string(m))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print the mode every time another process changes it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.prefs()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			changes, unsubscribe := st.Subscribe()
			defer unsubscribe()

			done := make(chan error, 1)
			go func() { done <- st.Watch(ctx) }()

			writeLine(cmd, string(st.Mode()))
			for {
				select {
				case m := <-changes:
					writeLine(cmd, string(m))
				case err := <-done:
					return err
				}
			}
		},
	})

	return cmd
}
