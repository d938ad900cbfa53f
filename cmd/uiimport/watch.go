package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gnana997/uiimport/pkg/pipeline"
)

func watchCmd(g *globalOptions) *cobra.Command {
	var (
		write    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rewrite files as they change",
		Long: `Watch a directory tree and re-run the rewrite on every changed source
file. Without --write changes are only reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load(cmd, nil)
			if err != nil {
				return err
			}
			defer e.Close()

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			out := cmd.OutOrStdout()
			w, err := pipeline.NewWatcher(e.pipeline, pipeline.WatchOptions{
				Debounce: debounce,
				Write:    write,
				Discover: e.cfg.DiscoverOptions(),
				OnResult: func(res *pipeline.FileResult, err error) {
					switch {
					case err != nil:
						delColor.Fprintf(out, "✗ %v\n", err)
					case res.Changed && write:
						addColor.Fprintf(out, "✓ rewrote %s (%d specifiers, %d properties)\n",
							displayPath(res.Path), res.Stats.Specifiers, res.Stats.Properties)
					case res.Changed:
						warnColor.Fprintf(out, "~ %s would change\n", displayPath(res.Path))
					}
				},
			}, e.logger)
			if err != nil {
				return err
			}
			if err := w.Start(root); err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "watching %s (Ctrl+C to stop)\n", root)
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write rewritten files in place")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "delay before re-running on a changed file")
	return cmd
}
