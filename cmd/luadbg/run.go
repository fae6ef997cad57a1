package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/luadbg/internal/config"
	"github.com/dshills/luadbg/internal/dbg"
	"github.com/dshills/luadbg/internal/logging"
	"github.com/dshills/luadbg/internal/luaeng"
	"github.com/dshills/luadbg/internal/prompt"
	"github.com/dshills/luadbg/internal/session"
)

var (
	runOutputPath string
	runContext    int
	runBreaks     []string
	runLogLevel   string
)

var runCmd = &cobra.Command{
	Use:   "run <script.lua>",
	Short: "Run a Lua script under the debugger",
	Long: `Run executes a Lua script with the debugger console attached.

Execution stops wherever the script calls breakpoint(). With --break, only
the listed script:line sites stop; other breakpoint() calls pass through.
Terminating errors stop at the fatal-error watch before unwinding.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script := args[0]

		cfgPath, _ := config.DefaultPath()
		cfg := config.Load(cfgPath)
		if cmd.Flags().Changed("context") {
			cfg.DefaultContext = runContext
		}
		if runOutputPath != "" {
			cfg.OutputPath = runOutputPath
		}
		if runLogLevel != "" {
			cfg.LogLevel = runLogLevel
		}

		log := logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Output: os.Stderr,
			Prefix: "luadbg",
		})

		engine := luaeng.New(nil, log)
		defer engine.Close()

		for _, site := range runBreaks {
			path, line, err := parseBreak(site)
			if err != nil {
				return err
			}
			engine.AddBreakpoint(path, line)
		}

		session.Attach(engine, session.Options{
			OutputPath:     cfg.OutputPath,
			MaxHistory:     cfg.MaxHistory,
			DefaultContext: cfg.DefaultContext,
			Prompter:       prompt.New(),
			Evaluator:      engine,
			Stack:          engine,
			Logger:         log,
			OnPin: func(radius int) {
				if cfgPath == "" {
					return
				}
				if err := config.SaveContext(cfgPath, radius); err != nil {
					log.Debug("persist context preference: %v", err)
				}
			},
		})

		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("luadbg")+" "+dimStyle.Render(script))

		err := engine.Run(script)
		switch {
		case errors.Is(err, dbg.ErrAborted):
			fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("aborted by operator"))
			return nil
		case err != nil:
			fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render(err.Error()))
			return err
		default:
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("script completed"))
			return nil
		}
	},
}

// parseBreak splits a --break argument of the form script.lua:12.
func parseBreak(site string) (string, int, error) {
	idx := strings.LastIndex(site, ":")
	if idx <= 0 || idx == len(site)-1 {
		return "", 0, fmt.Errorf("invalid --break %q, want script.lua:line", site)
	}
	line, err := strconv.Atoi(site[idx+1:])
	if err != nil || line <= 0 {
		return "", 0, fmt.Errorf("invalid --break line in %q", site)
	}
	return site[:idx], line, nil
}

func init() {
	runCmd.Flags().StringVarP(&runOutputPath, "out", "o", "", "append debugger transcript to a file and spawn the viewer")
	runCmd.Flags().IntVarP(&runContext, "context", "c", 0, "default source context lines at each stop")
	runCmd.Flags().StringArrayVarP(&runBreaks, "break", "b", nil, "enable only the given script.lua:line breakpoint sites")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	rootCmd.AddCommand(runCmd)
}
