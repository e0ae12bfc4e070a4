package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch-deferred",
	Short: "Run due deferred preference window openings once",
	Long: `Claims due scheduled notifications and opens their preference windows, the
same work the API server runs on its cron schedule. Window mail is delivered
before the command exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, db, err := openApp()
		if err != nil {
			return err
		}
		defer db.Close()

		app.StartWorkers(cmd.Context())
		defer app.Stop()

		count, err := app.Services.Dispatcher.Dispatch(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dispatched %d deferred jobs\n", count)
		return nil
	},
}
