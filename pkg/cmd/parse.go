package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/parser"
	"github.com/splanck/viper-sub025/pkg/printer"
	"github.com/splanck/viper-sub025/pkg/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] source_file",
	Short: "parse a BASIC source file and print its AST dump.",
	Long:  "Run only the lexer and parser, printing the deterministic S-expression AST dump without folding, analysis or lowering.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]

		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("error reading %s: %s\n", path, err.Error())
			os.Exit(2)
		}

		mgr := source.NewManager()

		fileID, err := mgr.AddFile(path, src)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		emitter := diag.NewEmitter(mgr)
		prog := parser.ParseProgram(src, fileID, emitter)

		fmt.Print(printer.Dump(prog))

		if emitter.ErrorCount() > 0 {
			emitter.PrintAll(os.Stdout)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
