package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThemesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available profile themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			themes, err := app.client().Themes(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.renderer().themes(themes, ""))
			return nil
		},
	}
}

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Change the theme of a profile you own",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <username> <theme>",
		Short: "Apply a theme",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			t, err := app.client().SetTheme(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			r := app.renderer()
			writeLine(cmd, fmt.Sprintf("@%s now uses %s %s", args[0], r.swatch(*t), t.Name))
			return nil
		},
	})
	return cmd
}
