package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// RunOptions holds flags of the run command.
type RunOptions struct {
	Capacity int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Simulate a frame scenario",
		Long: `Simulate every frame of a scenario file.

Each frame imports the resources it uses, records a reprojection read (if
configured) and a resolve write, exports them, executes the graph and
retires every registered resource. Resources not used in a frame are
retired as no-ops.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Capacity < 0 {
				return fmt.Errorf("capacity must not be negative, got %d", opts.Capacity)
			}
			s, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			report, err := Simulate(s, opts.Capacity)
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "registry capacity; idle resources beyond it are evicted (0 = unlimited)")

	return cmd
}

func writeReport(w io.Writer, report *Report) error {
	table := tablewriter.NewWriter(w)
	table.Header("Frame", "Resource", "Used", "State", "Access", "Barriers")
	for _, r := range report.Results {
		used := "-"
		if r.Used {
			used = "yes"
		}
		if err := table.Append(
			strconv.Itoa(r.Frame),
			r.Resource,
			used,
			r.State,
			r.Access,
			strconv.Itoa(r.Barriers),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nFrames: %d  Evictions: %d\n", report.Frames, report.Evictions)
	return err
}
