package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show, create and share profiles",
	}
	cmd.AddCommand(newProfileShowCmd(app))
	cmd.AddCommand(newProfileListCmd(app))
	cmd.AddCommand(newProfileCreateCmd(app))
	cmd.AddCommand(newProfileShareCmd(app))
	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	var search, field, category string
	cmd := &cobra.Command{
		Use:   "show <username>",
		Short: "Render a profile with its links grouped by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := linkhub.ParseField(field)
			if err != nil {
				return err
			}
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			v, err := app.client().Profile(ctx, args[0], linkhub.Filter{Search: search, Field: f, Category: category})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.renderer().profile(v, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive substring to match")
	cmd.Flags().StringVar(&field, "field", "title", "Field to search (title|url|category|all)")
	cmd.Flags().StringVar(&category, "category", "", "Only show links in this category")
	return cmd
}

func newProfileListCmd(app *App) *cobra.Command {
	var userID string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent profiles, or those owned by --user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			ps, err := app.client().Profiles(ctx, userID, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.renderer().profiles(ps, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Owner user id")
	cmd.Flags().IntVar(&limit, "limit", 3, "Maximum number of profiles")
	return cmd
}

func newProfileCreateCmd(app *App) *cobra.Command {
	var theme string
	var links []string
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a profile (links as \"title|url|category\")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]models.LinkReq, 0, len(links))
			for _, raw := range links {
				l, err := parseLinkFlag(raw)
				if err != nil {
					return err
				}
				reqs = append(reqs, l)
			}

			ctx, cancel := app.ctx(cmd)
			defer cancel()
			c := app.client()

			tracker := linkhub.NewAvailabilityTracker(c.UsernameExists)
			switch v := tracker.Check(ctx, args[0]); v.Status {
			case linkhub.AvailabilityInvalid:
				return errors.Wrapf(linkhub.ErrValidationFailed, "username %q must be 3-30 characters of letters, digits or '-'", args[0])
			case linkhub.AvailabilityTaken:
				return errors.Wrapf(linkhub.ErrUsernameTaken, "username %q", v.Username)
			}

			p, err := c.CreateProfile(ctx, models.ProfileCreateReq{Username: args[0], Theme: theme, Links: reqs})
			if err != nil {
				return err
			}
			writeLine(cmd, fmt.Sprintf("created @%s with %d links", p.Username, len(p.Links)))
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", linkhub.DefaultTheme, "Theme id")
	cmd.Flags().StringArrayVar(&links, "link", nil, "Link as \"title|url|category\" (repeatable, at least one)")
	return cmd
}

func newProfileShareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "share <username>",
		Short: "Print the public URL of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			u, err := app.client().ShareURL(ctx, args[0])
			if err != nil {
				return err
			}
			writeLine(cmd, u)
			return nil
		},
	}
}

// parseLinkFlag reads "title|url" or "title|url|category".
func parseLinkFlag(raw string) (models.LinkReq, error) {
	parts := strings.Split(raw, "|")
	if len(parts) < 2 || len(parts) > 3 {
		return models.LinkReq{}, errors.Wrapf(linkhub.ErrValidationFailed, "link %q: want title|url[|category]", raw)
	}
	l := models.LinkReq{Title: strings.TrimSpace(parts[0]), URL: strings.TrimSpace(parts[1])}
	if len(parts) == 3 {
		l.Category = strings.TrimSpace(parts[2])
	}
	return l, nil
}
