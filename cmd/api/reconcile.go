package main

import (
	"fmt"

	"paisawise/internal/server"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair balance-sheet postings for every organization",
	RunE:  runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}

	svc := server.NewServices(server.Deps{
		DB:          db,
		Departments: cfg.Departments.Names,
		Secret:      cfg.Secret(),
		Log:         log,
	})
	reports, err := svc.Reconcile.ReconcileAll(cmd.Context())
	if err != nil {
		return err
	}

	repaired := 0
	for _, r := range reports {
		if r.Repairs() == 0 {
			continue
		}
		repaired++
		fmt.Fprintf(cmd.OutOrStdout(), "%s  posted=%d mirrored=%d removed=%d\n",
			r.OrganizationID, r.RequestsPosted, r.CashFlowMirrored, r.OrphansRemoved)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d organizations checked, %d repaired\n", len(reports), repaired)
	return nil
}
