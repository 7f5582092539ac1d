package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gogpu/framegraph/access"
)

// NewFormatsCommand creates the formats command, which lists the names
// accepted in scenario files.
func NewFormatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List accepted resource kinds, texture formats and access types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := make([]string, 0, len(textureFormats))
			for name := range textureFormats {
				formats = append(formats, name)
			}
			slices.Sort(formats)

			accesses := make([]string, 0, len(access.All()))
			for _, a := range access.All() {
				accesses = append(accesses, a.String())
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string][]string{
					"kinds":    kindNames(),
					"formats":  formats,
					"accesses": accesses,
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Resource kinds:")
			for _, k := range kindNames() {
				fmt.Fprintf(w, "  %s\n", k)
			}
			fmt.Fprintln(w, "Texture formats:")
			for _, f := range formats {
				fmt.Fprintf(w, "  %s\n", f)
			}
			fmt.Fprintln(w, "Access types:")
			for _, a := range accesses {
				fmt.Fprintf(w, "  %s\n", a)
			}
			return nil
		},
	}

	return cmd
}
