package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for gallerygen.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallerygen",
		Short: "Static photo gallery generator",
		Long: `gallerygen builds a static HTML photo gallery from an image list.

Images are grouped by the camera make and model recorded in their EXIF
data. The generator writes an index page, one page per make and one page
per make/model pair, with navigation links between them and thumbnails
of the first images in input order.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
