package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fixtures/internal/catalogimport"
	"fixtures/internal/store"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the classification catalog",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogSetCommand(ctx))
	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	return catalogCmd
}

type catalogEntry struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var category, series string

	cmd := &cobra.Command{
		Use:   "list <categories|series|items|operations>",
		Short: "List catalog entries",
		Args:  requireArgs(1, "<categories|series|items|operations>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(strings.TrimSpace(args[0]))
			category, series := upper(category), upper(series)
			return ctx.withStore(func(st *store.Store) error {
				var entries []catalogEntry
				switch kind {
				case "categories", "category":
					rows, err := st.Categories(cmd.Context())
					if err != nil {
						return err
					}
					for _, r := range rows {
						entries = append(entries, catalogEntry{Key: r.Key(), Name: r.Name})
					}
				case "series":
					var rows []store.Series
					var err error
					if category != "" {
						rows, err = st.SeriesByCategory(cmd.Context(), category)
					} else {
						rows, err = st.AllSeries(cmd.Context())
					}
					if err != nil {
						return err
					}
					for _, r := range rows {
						entries = append(entries, catalogEntry{Key: r.Key(), Name: r.Name})
					}
				case "items", "item":
					var rows []store.ItemNumber
					var err error
					switch {
					case category != "" && series != "":
						rows, err = st.ItemsByCategoryAndSeries(cmd.Context(), category, series)
					case category == "" && series == "":
						rows, err = st.AllItemNumbers(cmd.Context())
					default:
						return usageError{msg: "--category and --series must be given together"}
					}
					if err != nil {
						return err
					}
					for _, r := range rows {
						entries = append(entries, catalogEntry{Key: r.Key(), Name: r.Name})
					}
				case "operations", "operation":
					rows, err := st.Operations(cmd.Context())
					if err != nil {
						return err
					}
					for _, r := range rows {
						entries = append(entries, catalogEntry{Key: r.Key(), Name: r.Name})
					}
				default:
					return usageError{msg: fmt.Sprintf("unknown catalog list %q", args[0])}
				}

				if ctx.jsonOutput() {
					if entries == nil {
						entries = []catalogEntry{}
					}
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No entries")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{e.Key, e.Name})
				}
				printTable(cmd.OutOrStdout(), []string{"Key", "Name"}, rows, nil)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Restrict series and items to a category")
	cmd.Flags().StringVar(&series, "series", "", "Restrict items to a series")
	return cmd
}

func newCatalogSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category|series|item|operation> <codes...> <name>",
		Short: "Add or rename a catalog entry",
		Long: "Examples:\n" +
			"  fixtures catalog set category CS \"Car Seats\"\n" +
			"  fixtures catalog set series CS X \"Experimental\"\n" +
			"  fixtures catalog set item CS X 01 \"Backrest Frame\"\n" +
			"  fixtures catalog set operation F \"Forming\"",
		Args: requireArgs(3, "<category|series|item|operation> <codes...> <name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := strings.ToLower(strings.TrimSpace(args[0]))
			codes := args[1 : len(args)-1]
			name := args[len(args)-1]
			for i := range codes {
				codes[i] = upper(codes[i])
			}

			want := map[string]int{"category": 1, "series": 2, "item": 3, "operation": 1}
			n, ok := want[kind]
			if !ok {
				return usageError{msg: fmt.Sprintf("unknown catalog kind %q", args[0])}
			}
			if len(codes) != n {
				return usageError{msg: fmt.Sprintf("%s takes %d code(s) before the name, got %d", kind, n, len(codes))}
			}

			return ctx.withStore(func(st *store.Store) error {
				var (
					result store.UpsertResult
					key    string
					err    error
				)
				switch kind {
				case "category":
					c := store.Category{Code: codes[0], Name: name}
					key = c.Key()
					result, err = st.UpsertCategory(cmd.Context(), c)
				case "series":
					s := store.Series{CategoryCode: codes[0], Code: codes[1], Name: name}
					key = s.Key()
					result, err = st.UpsertSeries(cmd.Context(), s)
				case "item":
					it := store.ItemNumber{CategoryCode: codes[0], SeriesCode: codes[1], Code: codes[2], Name: name}
					key = it.Key()
					result, err = st.UpsertItemNumber(cmd.Context(), it)
				case "operation":
					op := store.Operation{Code: codes[0], Name: name}
					key = op.Key()
					result, err = st.UpsertOperation(cmd.Context(), op)
				}
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]string{"kind": kind, "key": key, "result": result.String()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", kind, key, result)
				return nil
			})
		},
	}
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Upsert catalog entries from a YAML file",
		Args:  requireArgs(1, "<file.yaml>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return ctx.withStore(func(st *store.Store) error {
				report, err := catalogimport.New(st, logger).ImportFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report)
				}
				renderImportReport(cmd, report)
				return nil
			})
		},
	}
}

func renderImportReport(cmd *cobra.Command, report *catalogimport.Report) {
	out := cmd.OutOrStdout()
	sheets := []struct {
		name string
		s    catalogimport.SheetReport
	}{
		{"categories", report.Categories},
		{"series", report.Series},
		{"items", report.Items},
		{"operations", report.Operations},
	}
	rows := make([][]string, 0, len(sheets))
	for _, sheet := range sheets {
		rows = append(rows, []string{
			sheet.name,
			fmt.Sprint(sheet.s.Added),
			fmt.Sprint(sheet.s.Updated),
			fmt.Sprint(sheet.s.Skipped),
			fmt.Sprint(sheet.s.Errors),
			fmt.Sprint(len(sheet.s.Missing)),
		})
	}
	fmt.Fprintf(out, "Import %s\n", report.RunID)
	printTable(out,
		[]string{"Sheet", "Added", "Updated", "Skipped", "Errors", "Not in file"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
	for _, sheet := range sheets {
		for _, failure := range sheet.s.Failures {
			fmt.Fprintf(out, "error: %s\n", failure)
		}
	}
	for _, sheet := range sheets {
		if len(sheet.s.Missing) > 0 {
			fmt.Fprintf(out, "%s not in file: %s\n", sheet.name, strings.Join(sheet.s.Missing, ", "))
		}
	}
}
