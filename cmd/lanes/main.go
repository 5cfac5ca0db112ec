package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsariola/lanes/version"
)

var (
	verbose  bool
	stacked  bool
	overlaid bool

	rootCmd = &cobra.Command{
		Use:   "lanes [command]",
		Short: "Show the region lanes of a recording session.",
		Long: `lanes shows the tracks of a session as lanes of regions, stacked by layer,
and can simulate a recording run to show the capture boxes. Sessions are YAML
files; without one, a built-in demo session is used.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
)

func init() {
	// logs go to stderr, so that dumps can be piped
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&stacked, "stacked", false, "Stack overlapping regions, overriding the preferences")
	rootCmd.PersistentFlags().BoolVar(&overlaid, "overlaid", false, "Overlay overlapping regions, overriding the preferences")
	rootCmd.MarkFlagsMutuallyExclusive("stacked", "overlaid")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(recordCmd)

	rootCmd.Version = version.VersionOrHash
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
