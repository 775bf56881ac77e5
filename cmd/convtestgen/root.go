package main

import (
	"io"
	"log/slog"

	"github.com/example/convtestgen/internal/config"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	var cfgFile string

	cmd := &cobra.Command{
		Use:   "convtestgen",
		Short: "Generate dot-product test vectors as a Verilog include header",
		Long: "convtestgen draws random input/weight vectors, computes the expected\n" +
			"dot product (plus an optional bias) and writes everything as 32'h\n" +
			"IEEE-754 literals into a `ifndef-guarded .vh file for a testbench.\n\n" +
			"-ur and -lr are accepted as aliases for --upper-range and --lower-range.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			setupLogger(cmd.ErrOrStderr(), cfg.LogLevel)

			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			_, err = generate(cfg)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.Flags(), defaults)

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(w io.Writer, levelStr string) {
	lvl, err := config.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}
