package cli

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
)

func newLinksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Edit the links of a profile you own",
	}
	cmd.AddCommand(newLinksAddCmd(app))
	cmd.AddCommand(newLinksEditCmd(app))
	cmd.AddCommand(newLinksRmCmd(app))
	cmd.AddCommand(newLinksMoveCmd(app))
	return cmd
}

func linkFlags(cmd *cobra.Command, req *models.LinkReq) {
	cmd.Flags().StringVar(&req.Title, "title", "", "Link title")
	cmd.Flags().StringVar(&req.URL, "url", "", "Link URL (https:// is added when no scheme is given)")
	cmd.Flags().StringVar(&req.Category, "category", "", "Link category")
}

func newLinksAddCmd(app *App) *cobra.Command {
	req := models.LinkReq{}
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Append a link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			l, err := app.client().AddLink(ctx, args[0], req)
			if err != nil {
				return err
			}
			writeLine(cmd, app.renderer().link(*l))
			return nil
		},
	}
	linkFlags(cmd, &req)
	return cmd
}

func newLinksEditCmd(app *App) *cobra.Command {
	req := models.LinkReq{}
	cmd := &cobra.Command{
		Use:   "edit <username> <id>",
		Short: "Replace the title, url and category of a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			l, err := app.client().EditLink(ctx, args[0], id, req)
			if err != nil {
				return err
			}
			writeLine(cmd, app.renderer().link(*l))
			return nil
		},
	}
	linkFlags(cmd, &req)
	return cmd
}

func newLinksRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <username> <id>",
		Short: "Delete a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			if err := app.client().DeleteLink(ctx, args[0], id); err != nil {
				return err
			}
			writeLine(cmd, fmt.Sprintf("deleted link %d", id))
			return nil
		},
	}
}

func newLinksMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <username> <from-id> <to-id>",
		Short: "Move a link to the position of another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseID(args[1])
			if err != nil {
				return err
			}
			to, err := parseID(args[2])
			if err != nil {
				return err
			}
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			links, err := app.client().Reorder(ctx, args[0], from, to)
			if err != nil {
				return err
			}
			r := app.renderer()
			for _, l := range links {
				writeLine(cmd, r.link(l))
			}
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(linkhub.ErrValidationFailed, "link id %q", s)
	}
	return id, nil
}
