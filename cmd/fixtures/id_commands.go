package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fixtures/internal/fixtureid"
	"fixtures/internal/radix"
	"fixtures/internal/version"
)

func newIDCommand(ctx *commandContext) *cobra.Command {
	idCmd := &cobra.Command{
		Use:         "id",
		Short:       "Parse, format and compare fixture identifiers",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	idCmd.AddCommand(newIDParseCommand(ctx))
	idCmd.AddCommand(newIDFormatCommand(ctx))
	idCmd.AddCommand(newIDCompareCommand(ctx))
	idCmd.AddCommand(newIDEncodeCommand(ctx))
	idCmd.AddCommand(newIDDecodeCommand(ctx))
	return idCmd
}

type parsedID struct {
	FullID string `json:"full_id"`
	fixtureid.Fields
	Special     bool   `json:"special"`
	RelativeDir string `json:"relative_dir"`
	LabelError  string `json:"label_error,omitempty"`
}

func describeID(fields fixtureid.Fields) parsedID {
	out := parsedID{
		FullID:      fixtureid.Format(fields),
		Fields:      fields,
		RelativeDir: fields.RelativeDir(),
	}
	if v, err := version.Parse(fields.Version()); err == nil {
		out.Special = v.IsSpecial
	}
	if err := fields.ValidateLabels(); err != nil {
		out.LabelError = err.Error()
	}
	return out
}

func newIDParseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <id>",
		Short: "Split an identifier into its fields",
		Args:  requireArgs(1, "<id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := fixtureid.Parse(fixtureid.Normalize(args[0]))
			if err != nil {
				return err
			}
			desc := describeID(fields)
			if ctx.jsonOutput() {
				return writeJSON(cmd, desc)
			}
			rows := [][]string{
				{"Category", fields.Category},
				{"Series", fields.Series},
				{"Item number", fields.ItemNumber},
				{"Operation", fields.Operation},
				{"Fixture number", fields.FixtureNumber},
				{"Unique parts", fields.UniqueParts},
				{"Part in assembly", fields.PartInAssembly},
				{"Part quantity", fields.PartQuantity},
				{"Assembly version", fields.AssemblyVersion},
				{"Intermediate", fields.IntermediateVersion},
				{"Special", yesNo(desc.Special)},
				{"Folder", desc.RelativeDir},
			}
			if desc.LabelError != "" {
				rows = append(rows, []string{"Label policy", desc.LabelError})
			}
			printTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows, nil)
			return nil
		},
	}
}

func newIDFormatCommand(ctx *commandContext) *cobra.Command {
	var fields fixtureid.Fields

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Build an identifier from its fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := fixtureid.Fields{
				Category:            upper(fields.Category),
				Series:              upper(fields.Series),
				ItemNumber:          upper(fields.ItemNumber),
				Operation:           upper(fields.Operation),
				FixtureNumber:       upper(fields.FixtureNumber),
				UniqueParts:         upper(fields.UniqueParts),
				PartInAssembly:      upper(fields.PartInAssembly),
				PartQuantity:        upper(fields.PartQuantity),
				AssemblyVersion:     upper(fields.AssemblyVersion),
				IntermediateVersion: upper(fields.IntermediateVersion),
			}
			if err := f.Validate(); err != nil {
				return err
			}
			id := fixtureid.Format(f)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"full_id": id})
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&fields.Category, "category", "", "Category code (KKK)")
	flags.StringVar(&fields.Series, "series", "", "Series code (S)")
	flags.StringVar(&fields.ItemNumber, "item", "", "Item number (NN)")
	flags.StringVar(&fields.Operation, "operation", "", "Operation code (D)")
	flags.StringVar(&fields.FixtureNumber, "fixture", "", "Fixture number (TT)")
	flags.StringVar(&fields.UniqueParts, "unique", "01", "Unique parts in the assembly (AA)")
	flags.StringVar(&fields.PartInAssembly, "part", "01", "Part within the assembly (BB)")
	flags.StringVar(&fields.PartQuantity, "quantity", "01", "Part quantity (CC)")
	flags.StringVar(&fields.AssemblyVersion, "version", "01", "Assembly version (VV)")
	flags.StringVar(&fields.IntermediateVersion, "intermediate", "", "Intermediate version (W)")
	return cmd
}

func newIDCompareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old> <new>",
		Short: "Report whether the second version supersedes the first",
		Long: "Accepts bare versions (VV or VVW) or full identifiers, in which case the\n" +
			"version part is compared.",
		Args: requireArgs(2, "<old> <new>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldV, err := versionArg(args[0])
			if err != nil {
				return err
			}
			newV, err := versionArg(args[1])
			if err != nil {
				return err
			}
			newer := version.IsNewer(oldV, newV)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"old":      oldV.String(),
					"new":      newV.String(),
					"is_newer": newer,
				})
			}
			if newer {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is newer than %s\n", newV, oldV)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not newer than %s\n", newV, oldV)
			}
			return nil
		},
	}
}

func versionArg(arg string) (version.Version, error) {
	arg = fixtureid.Normalize(arg)
	if strings.Contains(arg, "-") {
		fields, err := fixtureid.Parse(arg)
		if err != nil {
			return version.Version{}, err
		}
		arg = fields.Version()
	}
	return version.Parse(arg)
}

func newIDEncodeCommand(ctx *commandContext) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "encode <n>",
		Short: "Encode a non-negative integer in the label alphabet",
		Args:  requireArgs(1, "<n>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return usageError{msg: fmt.Sprintf("invalid number %q", args[0])}
			}
			var encoded string
			if width > 0 {
				encoded, err = radix.EncodePadded(n, width)
			} else {
				encoded, err = radix.Encode(n)
			}
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"value": n, "encoded": encoded})
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Left-pad with zeros to this many symbols")
	return cmd
}

func newIDDecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <symbols>",
		Short: "Decode a label-alphabet string to an integer",
		Args:  requireArgs(1, "<symbols>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := radix.Decode(args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"encoded": strings.TrimSpace(args[0]), "value": n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
