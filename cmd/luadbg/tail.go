package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/luadbg/internal/logging"
	"github.com/dshills/luadbg/internal/tail"
)

var tailFromStart bool

var tailCmd = &cobra.Command{
	Use:   "tail <transcript-file>",
	Short: "Follow a debugger transcript file",
	Long: `Tail continuously displays content appended to a debugger transcript.

It is spawned automatically as the companion viewer when the debugger writes
its transcript to a file, and can be run by hand against any transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-signals
			cancel()
		}()

		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("following "+path))

		f := tail.NewFollower(path, cmd.OutOrStdout(), logging.NullLogger)
		f.FromStart = tailFromStart
		err := f.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	tailCmd.Flags().BoolVar(&tailFromStart, "from-start", false, "replay existing transcript content before following")
	rootCmd.AddCommand(tailCmd)
}
