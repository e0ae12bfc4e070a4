package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Create missing section courses and schedules for the active period",
	Long: `Expands the curriculum of the active academic year into section courses and
empty schedules. Safe to run repeatedly; existing rows are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, db, err := openApp()
		if err != nil {
			return err
		}
		defer db.Close()

		tree, err := app.Services.Reconcile.Reconcile(cmd.Context())
		if err != nil {
			return err
		}

		sections, courses := 0, 0
		for _, p := range tree.Programs {
			for _, yl := range p.YearLevels {
				for _, sem := range yl.Semesters {
					sections += len(sem.Sections)
					for _, s := range sem.Sections {
						courses += len(s.Courses)
					}
				}
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d-%d semester %d: %d programs, %d sections, %d section courses\n",
			tree.YearStart, tree.YearEnd, tree.SemesterID, len(tree.Programs), sections, courses)
		return nil
	},
}
