// Package main is the entry point for the luadbg debugger console.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "luadbg",
	Short: "Attachable interactive debugger console for Lua scripts",
	Long: `luadbg runs Lua scripts under an interactive debugger console.

Scripts stop at instrumented breakpoint() sites and on terminating errors.
At each stop an operator prompt accepts debugger commands (continue, step,
stack, history, source context) intermixed with arbitrary Lua expressions
evaluated against the live state.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("luadbg %s (%s)\n", version, commit))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
