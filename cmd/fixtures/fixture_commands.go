package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fixtures/internal/fixtureid"
	"fixtures/internal/registry"
	"fixtures/internal/store"
)

func newNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next <category> <series> <item> <operation>",
		Short: "Show the next free fixture number for a classification",
		Args:  requireArgs(4, "<category> <series> <item> <operation>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			tuple := fixtureid.Tuple{
				Category:   upper(args[0]),
				Series:     upper(args[1]),
				ItemNumber: upper(args[2]),
				Operation:  upper(args[3]),
			}
			return ctx.withRegistry(func(reg *registry.Registry) error {
				next, err := reg.NextFixtureNumber(cmd.Context(), tuple)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"tuple": tuple, "fixture_number": next})
				}
				fmt.Fprintln(cmd.OutOrStdout(), next)
				return nil
			})
		},
	}
}

func newCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <fullId>",
		Short: "Register a fixture identifier and create its folder",
		Args:  requireArgs(1, "<fullId>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(reg *registry.Registry) error {
				fixture, err := reg.Create(cmd.Context(), fixtureid.Normalize(args[0]))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, fixture)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created fixture %d: %s\n", fixture.ID, fixture.FullID)
				fmt.Fprintf(out, "Folder: %s\n", fixture.BasePath)
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|fullId>",
		Short: "Show one fixture",
		Args:  requireArgs(1, "<id|fullId>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(reg *registry.Registry) error {
				fixture, err := reg.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, fixture)
				}
				rows := [][]string{
					{"ID", strconv.FormatInt(fixture.ID, 10)},
					{"Identifier", fixture.FullID},
					{"Category", labelled(fixture.Category, fixture.CategoryName)},
					{"Series", labelled(fixture.Series, fixture.SeriesName)},
					{"Item number", labelled(fixture.ItemNumber, fixture.ItemName)},
					{"Operation", labelled(fixture.Operation, fixture.OperationName)},
					{"Fixture number", fixture.FixtureNumber},
					{"Parts", fmt.Sprintf("%s of %s (qty %s)", fixture.PartInAssembly, fixture.UniqueParts, fixture.PartQuantity)},
					{"Version", fixture.Version()},
					{"Folder", fixture.BasePath},
					{"Created", fixture.CreatedAt.Local().Format("2006-01-02 15:04:05")},
				}
				printTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows, nil)
				return nil
			})
		},
	}
}

func labelled(code, name string) string {
	if strings.TrimSpace(name) == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, name)
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var filter store.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter = store.Filter{
				Category:   upper(filter.Category),
				Series:     upper(filter.Series),
				ItemNumber: upper(filter.ItemNumber),
				Operation:  upper(filter.Operation),
			}
			return ctx.withRegistry(func(reg *registry.Registry) error {
				fixtures, err := reg.ListFiltered(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					if fixtures == nil {
						fixtures = []*store.Fixture{}
					}
					return writeJSON(cmd, fixtures)
				}
				if len(fixtures) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No fixtures found")
					return nil
				}
				rows := make([][]string, 0, len(fixtures))
				for _, f := range fixtures {
					rows = append(rows, []string{
						strconv.FormatInt(f.ID, 10),
						f.FullID,
						f.ItemName,
						f.OperationName,
						f.CreatedAt.Local().Format("2006-01-02"),
					})
				}
				printTable(cmd.OutOrStdout(),
					[]string{"ID", "Identifier", "Item", "Operation", "Created"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.Category, "category", "", "Only fixtures in this category")
	flags.StringVar(&filter.Series, "series", "", "Only fixtures in this series")
	flags.StringVar(&filter.ItemNumber, "item", "", "Only fixtures for this item number")
	flags.StringVar(&filter.Operation, "operation", "", "Only fixtures for this operation")
	return cmd
}

type deleteOutcome struct {
	Ref     string `json:"ref"`
	ID      int64  `json:"id,omitempty"`
	FullID  string `json:"full_id,omitempty"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var keepDir bool

	cmd := &cobra.Command{
		Use:   "delete <id|fullId>...",
		Short: "Delete fixtures and, unless kept, their folders",
		Args:  requireArgs(1, "<id|fullId>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			removeDir := !keepDir && ctx.config.Registry.RemoveDirectories
			return ctx.withRegistry(func(reg *registry.Registry) error {
				var errs []error
				outcomes := make([]deleteOutcome, 0, len(args))
				for _, ref := range args {
					outcome := deleteOutcome{Ref: ref}
					fixture, err := reg.Resolve(cmd.Context(), ref)
					if err != nil {
						outcome.Error = err.Error()
						outcomes = append(outcomes, outcome)
						errs = append(errs, fmt.Errorf("%s: %w", ref, err))
						continue
					}
					outcome.ID, outcome.FullID = fixture.ID, fixture.FullID
					deleted, err := reg.Delete(cmd.Context(), fixture.ID, removeDir)
					outcome.Deleted = deleted
					if err != nil {
						outcome.Error = err.Error()
						errs = append(errs, fmt.Errorf("%s: %w", ref, err))
					}
					outcomes = append(outcomes, outcome)
				}

				if ctx.jsonOutput() {
					if err := writeJSON(cmd, outcomes); err != nil {
						return err
					}
					return errors.Join(errs...)
				}
				out := cmd.OutOrStdout()
				for _, o := range outcomes {
					switch {
					case o.Deleted && o.Error != "":
						fmt.Fprintf(out, "Deleted fixture %d (%s); folder kept: %s\n", o.ID, o.FullID, o.Error)
					case o.Deleted:
						fmt.Fprintf(out, "Deleted fixture %d (%s)\n", o.ID, o.FullID)
					case o.Error == "":
						fmt.Fprintf(out, "Fixture %s not found\n", o.Ref)
					}
				}
				return errors.Join(errs...)
			})
		},
	}
	cmd.Flags().BoolVar(&keepDir, "keep-dir", false, "Leave the storage folder on disk")
	return cmd
}

func newAttachCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "attach <id|fullId> <file>...",
		Short: "Copy files into a fixture's folder named after its identifier",
		Args:  requireArgs(2, "<id|fullId> <file>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRegistry(func(reg *registry.Registry) error {
				fixture, err := reg.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				results, attachErr := reg.Attach(cmd.Context(), fixture.ID, args[1:], overwrite)
				if ctx.jsonOutput() {
					if err := writeJSON(cmd, results); err != nil {
						return err
					}
					return attachErr
				}
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					detail := r.Target
					if r.Error != "" {
						detail = r.Error
					}
					rows = append(rows, []string{r.Source, string(r.Status), detail})
				}
				printTable(cmd.OutOrStdout(), []string{"Source", "Status", "Target"}, rows, nil)
				return attachErr
			})
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace files that already exist")
	return cmd
}
