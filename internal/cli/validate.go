package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult is the JSON output of the validate command.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Frames    int    `json:"frames,omitempty"`
	Resources int    `json:"resources,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <scenario.yaml>",
		Short:         "Validate a scenario file without simulating it",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := LoadScenario(args[0])
			if err == nil {
				_, err = s.plan()
			}

			if rootOpts.Format == "json" {
				result := ValidationResult{Valid: err == nil}
				if err != nil {
					result.Error = err.Error()
				} else {
					result.Frames = s.Frames
					result.Resources = len(s.Resources)
				}
				if werr := writeJSON(cmd.OutOrStdout(), result); werr != nil {
					return werr
				}
				return err
			}

			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "scenario valid: %d frames, %d resources\n", s.Frames, len(s.Resources))
			return err
		},
	}

	return cmd
}
