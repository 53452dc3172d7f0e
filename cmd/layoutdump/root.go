package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ariya/phantomjs-sub051/logger"
	"github.com/ariya/phantomjs-sub051/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:          "layoutdump [flags] file.html...",
		Short:        "Lay out HTML fixtures and print their geometry",
		Version:      version.Version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd.Flags())
			if err != nil {
				return err
			}
			logger.Configure(cfg.LogLevel, zapcore.Lock(os.Stderr))
			return run(cmd, cfg, args)
		},
	}
	registerFlags(cmd.Flags())
	cmd.SetVersionTemplate(version.VersionString + "\n")
	return cmd
}

// run lays out the files concurrently, each with its own layout context,
// and writes the dumps in the order of [files].
func run(cmd *cobra.Command, cfg Config, files []string) error {
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))

	outputs := make([][]byte, len(files))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := dumpFile(file, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, out := range outputs {
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}
