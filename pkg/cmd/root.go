// Package cmd implements basicc's command-line interface: a cobra root
// command with compile/parse/version subcommands.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in when building with a release script, but not when
// installing via "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "basicc",
	Short: "A compiler front-end for the BASIC dialect described by this module.",
	Long:  "basicc lexes, parses, folds and analyzes BASIC source, lowering it to a typed IL consumed by an external VM.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			printVersion()
			return
		}

		cmd.Help() //nolint:errcheck
	},
}

func printVersion() {
	fmt.Print("basicc ")

	if Version != "" {
		fmt.Print(Version)
	} else if info, ok := debug.ReadBuildInfo(); ok {
		fmt.Print(info.Main.Version)
	} else {
		fmt.Print("(unknown version)")
	}

	fmt.Println()
}

// Execute adds all child commands to the root command and runs it. Called
// once from cmd/basicc/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:errcheck
func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	rootCmd.Flags().Bool("version", false, "print version information")

	cobra.OnInitialize(func() {
		if v, err := rootCmd.PersistentFlags().GetBool("verbose"); err == nil && v {
			log.SetLevel(log.DebugLevel)
		}
	})
}
