// Command basicc is the CLI entry point: parse/compile a BASIC source file.
package main

import "github.com/splanck/viper-sub025/pkg/cmd"

func main() {
	cmd.Execute()
}
