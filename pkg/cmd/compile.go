package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/splanck/viper-sub025/pkg/compiler"
	"github.com/splanck/viper-sub025/pkg/printer"
	"github.com/splanck/viper-sub025/pkg/source"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] source_file",
	Short: "compile a BASIC source file into the typed IL.",
	Long:  "Run the full pipeline (parse, fold, analyze, lower) over a single BASIC source file.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("error reading %s: %s\n", path, err.Error())
			os.Exit(2)
		}

		mgr := source.NewManager()
		res := compiler.Compile(compiler.Input{Source: src, Path: path}, compiler.Options{
			BoundsChecks: !GetFlag(cmd, "no-bounds-checks"),
		}, mgr)

		if GetFlag(cmd, "print-ast") && res.Program != nil {
			fmt.Print(printer.Dump(res.Program))
		}

		if res.Emitter.ErrorCount() > 0 {
			printBanner()
			res.Emitter.PrintAll(os.Stdout)
			os.Exit(1)
		}

		log.Debugf("compiled %s: %d functions", path, len(res.Module.Functions))
		fmt.Printf("ok: %s -> %d functions\n", path, len(res.Module.Functions))
	},
}

// printBanner writes a separator line sized to the attached terminal,
// falling back to 80 columns when stdout isn't a tty.
func printBanner() {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	fmt.Println(strings.Repeat("-", width))
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().Bool("no-bounds-checks", false, "disable array bounds checks in lowered code")
	compileCmd.Flags().Bool("print-ast", false, "print the parsed AST before reporting diagnostics")
}
