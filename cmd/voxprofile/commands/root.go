// SPDX-License-Identifier: EPL-2.0

// Package commands implements the voxprofile command line.
package commands

import (
	"github.com/spf13/cobra"
)

// options are the global flags.
type options struct {
	configPath string
	verbose    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "voxprofile",
		Short: "Voice recording analysis",
		Long: `voxprofile - record, encode and profile voices.

It estimates gender, age bracket and voice quality scores from a clip,
pairs the voice with a well known one and keeps per-user progress.

Configuration is read from an optional YAML file (--config), a .env file in
the working directory and VOXPROFILE_* environment variables.

Examples:
  # Analyse a clip
  voxprofile analyze clip.wav

  # Wrap raw float32 PCM into a WAV file
  voxprofile encode --rate 48000 --channels 1 capture.pcm capture.wav

  # Run the server
  voxprofile serve --config voxprofile.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newServeCmd(opts),
		newAnalyzeCmd(opts),
		newEncodeCmd(),
		newVersionCmd(opts),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
