package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fixtures/internal/preflight"
	"fixtures/internal/store"
)

type doctorReport struct {
	Checks   []preflight.Result `json:"checks"`
	Database store.Health       `json:"database"`
	Healthy  bool               `json:"healthy"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, free space and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := doctorReport{Checks: preflight.RunAll(cfg)}
			err = ctx.withStore(func(st *store.Store) error {
				report.Checks = append(report.Checks, preflight.CheckDatabase(cmd.Context(), st))
				health, err := st.CheckHealth(cmd.Context())
				report.Database = health
				return err
			})
			if err != nil {
				report.Checks = append(report.Checks, preflight.Result{Name: "Database", Detail: err.Error()})
			}
			report.Healthy = len(preflight.Failed(report.Checks)) == 0

			if ctx.jsonOutput() {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				renderDoctor(cmd, report)
			}
			if !report.Healthy {
				return fmt.Errorf("%d check(s) failed", len(preflight.Failed(report.Checks)))
			}
			return nil
		},
	}
}

var catalogTables = []struct {
	table string
	label string
}{
	{"categories", "Categories"},
	{"series", "Series"},
	{"item_numbers", "Item numbers"},
	{"operations", "Operations"},
}

func renderDoctor(cmd *cobra.Command, report doctorReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	checks := statusSection{title: "Checks"}
	for _, check := range report.Checks {
		kind := statusError
		if check.Passed {
			kind = statusOK
		}
		checks.add(check.Name, kind, check.Detail)
	}
	sections := []statusSection{checks}
	catalogIncomplete := false

	if db := report.Database; db.DatabaseExists {
		database := statusSection{title: "Database"}
		database.add("Path", statusInfo, db.DBPath)
		if db.SchemaCurrent {
			database.add("Schema", statusOK, fmt.Sprintf("version %d", db.SchemaVersion))
		} else {
			database.add("Schema", statusWarn, fmt.Sprintf("version %d is not current", db.SchemaVersion))
		}
		if len(db.MissingTables) > 0 {
			database.add("Tables", statusError, "missing "+strings.Join(db.MissingTables, ", "))
		}
		if db.IntegrityCheck {
			database.add("Integrity", statusOK, "")
		} else {
			database.add("Integrity", statusError, "integrity_check failed")
		}
		sections = append(sections, database)

		catalog := statusSection{title: "Catalog"}
		for _, t := range catalogTables {
			if n := db.Counts[t.table]; n > 0 {
				catalog.add(t.label, statusOK, fmt.Sprintf("%d rows", n))
			} else {
				catalog.add(t.label, statusWarn, "empty, fixtures cannot reference it")
			}
		}
		catalog.add("Fixtures", statusInfo, fmt.Sprintf("%d registered", db.Counts["fixtures"]))
		sections = append(sections, catalog)
		catalogIncomplete = catalog.worst() == statusWarn
	}

	var lines []string
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.render(colorize)...)
	}
	if catalogIncomplete {
		lines = append(lines, "", "Catalog is incomplete; run \"fixtures catalog import\" to load it.")
	}
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}
