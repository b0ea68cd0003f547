package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dotlink/cmd/dotlink"
	"github.com/arthur-debert/dotlink/pkg/palette"
	"github.com/arthur-debert/dotlink/pkg/theme"
)

func main() {
	rootCmd := dotlink.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		styles := theme.NewStyles(palette.Default())
		fmt.Fprintln(os.Stderr, styles.Error.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
