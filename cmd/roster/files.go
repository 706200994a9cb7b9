/*
files.go - Offline commands working on roster files

PURPOSE:
  Runs the engine without a database. Input is either a roster document
  (--config, YAML or JSON) or one of the built-in presets (--preset).

EXAMPLES:
  roster init --preset workshop --out roster.yaml
  roster validate --config roster.yaml
  roster export --config roster.yaml --format xlsx --out schedule.xlsx
  roster export --preset workshop --group ГР1 --overtime --format csv

SEE ALSO:
  - factory/roster.go: document schema
  - export/export.go: output formats
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/shift-roster/export"
	"github.com/warp/shift-roster/factory"
	"github.com/warp/shift-roster/schedule"
	"github.com/warp/shift-roster/shifts"
)

var (
	configPath string
	presetID   string

	exportFormat   string
	exportOut      string
	exportGroup    string
	exportOvertime bool

	initPreset string
	initOut    string
)

// =============================================================================
// COMMANDS
// =============================================================================

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate a roster and write it as XLSX or CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		roster, err := buildRoster()
		if err != nil {
			return err
		}
		records := schedule.Filter{Group: exportGroup, OvertimeOnly: exportOvertime}.Apply(roster.Records)

		out := exportOut
		if out == "" {
			out = format.FileName()
		}
		if err := writeFile(out, func(w io.Writer) error {
			return export.Write(w, format, records)
		}); err != nil {
			return err
		}

		logger.Info("roster exported",
			zap.String("file", out),
			zap.String("format", string(format)),
			zap.Int("records", len(records)),
			zap.Int("issues", len(roster.Issues)),
		)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Generate a roster and print cells that are not hours or a known code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roster, err := buildRoster()
		if err != nil {
			return err
		}
		return printIssues(cmd.OutOrStdout(), roster)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a preset roster as an editable YAML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, ok := shifts.Lookup(initPreset)
		if !ok {
			return fmt.Errorf("unknown preset %q", initPreset)
		}
		input, err := preset.Input()
		if err != nil {
			return err
		}
		data, err := factory.NewRosterFactory().EncodeYAML(input)
		if err != nil {
			return err
		}

		if initOut == "" || initOut == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(initOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", initOut, err)
		}
		logger.Info("roster file written", zap.String("file", initOut), zap.String("preset", initPreset))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{exportCmd, validateCmd} {
		cmd.Flags().StringVarP(&configPath, "config", "c", "", "roster file (.yaml, .yml or .json)")
		cmd.Flags().StringVar(&presetID, "preset", "", "use a built-in preset instead of a file")
		cmd.MarkFlagsMutuallyExclusive("config", "preset")
	}

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "xlsx", "output format (xlsx, csv)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default production_schedule.<format>, - for stdout)")
	exportCmd.Flags().StringVar(&exportGroup, "group", "", "only export this group")
	exportCmd.Flags().BoolVar(&exportOvertime, "overtime", false, "only export employees above the norm")

	initCmd.Flags().StringVar(&initPreset, "preset", shifts.PresetWorkshop, "preset to write")
	initCmd.Flags().StringVarP(&initOut, "out", "o", "", "output file (default stdout)")
}

// =============================================================================
// HELPERS
// =============================================================================

// loadInput reads --config, or the --preset (workshop when neither is set).
func loadInput() (*factory.Input, error) {
	if configPath != "" {
		input, err := factory.NewRosterFactory().LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		return input, nil
	}

	id := presetID
	if id == "" {
		id = shifts.PresetWorkshop
	}
	preset, ok := shifts.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", id)
	}
	return preset.Input()
}

func buildRoster() (*schedule.Roster, error) {
	input, err := loadInput()
	if err != nil {
		return nil, err
	}
	roster, err := input.Build(logger)
	if err != nil {
		if schedule.IsConfigError(err) {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
		return nil, err
	}
	return roster, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return write(f)
}

// printIssues writes one line per flagged cell followed by a summary.
func printIssues(w io.Writer, roster *schedule.Roster) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(roster.Issues) > 0 {
		fmt.Fprintln(tw, "EMPLOYEE\tDAY\tVALUE\tREASON")
		for _, issue := range roster.Issues {
			fmt.Fprintf(tw, "%s\t%d\t%q\t%s\n", issue.Employee, issue.Day, issue.Value, issue.Reason)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	overtime := len(schedule.Filter{OvertimeOnly: true}.Apply(roster.Records))
	_, err := fmt.Fprintf(w, "%d employees, %d over the %s h norm, %d flagged cells\n",
		len(roster.Records), overtime, roster.Norm.String(), len(roster.Issues))
	return err
}
