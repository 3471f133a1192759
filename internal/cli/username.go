package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
)

func newUsernameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "username",
		Short: "Username helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <username>",
		Short: "Report whether a username can be claimed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := app.ctx(cmd)
			defer cancel()

			tracker := linkhub.NewAvailabilityTracker(app.client().UsernameExists)
			writeLine(cmd, verdictLine(tracker.Check(ctx, args[0]), args[0]))
			return nil
		},
	})
	cmd.AddCommand(newUsernameWatchCmd(app))
	return cmd
}

// newUsernameWatchCmd treats every stdin line as the next state of a username
// being typed. Checks run without waiting for earlier ones, and only verdicts
// that become current are printed, so a slow answer for an old input never
// shows up after the answer for a newer one.
func newUsernameWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Check usernames read line by line from stdin as they are typed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tracker := linkhub.NewAvailabilityTracker(app.client().UsernameExists)
			tracker.OnChange(func(v linkhub.Verdict) {
				if v.Status != linkhub.AvailabilityPending {
					writeLine(cmd, verdictLine(v, ""))
				}
			})

			var pending []<-chan linkhub.Verdict
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				raw := strings.TrimSpace(sc.Text())
				if raw == "" {
					continue
				}
				pending = append(pending, tracker.Start(ctx, raw))
			}
			for _, ch := range pending {
				<-ch
			}
			return sc.Err()
		},
	}
}

func verdictLine(v linkhub.Verdict, raw string) string {
	name := v.Username
	if name == "" {
		name = raw
	}
	return fmt.Sprintf("%s: %s", name, v.Status)
}
