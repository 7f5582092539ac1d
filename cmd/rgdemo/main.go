// Command rgdemo replays frame scenarios through a render graph and reports
// how temporal resources move between frames.
package main

import (
	"fmt"
	"os"

	"github.com/gogpu/framegraph/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rgdemo:", err)
		os.Exit(1)
	}
}
