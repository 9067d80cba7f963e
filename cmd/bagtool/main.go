package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/davidqiu1993/ros-bag-tools/internal/config"
	"github.com/davidqiu1993/ros-bag-tools/internal/ops"
	logpkg "github.com/davidqiu1993/ros-bag-tools/pkg/log"
)

func main() {
	var (
		configPath string
		logLevel   string
		logFormat  string
	)

	var (
		logger logpkg.Logger
		runner *ops.Runner
	)

	rootCmd := &cobra.Command{
		Use:   "bagtool",
		Short: "Bag tools CLI",
		Long:  "bagtool exports bag channels to CSV and filters bags by channel.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}
			parsed, err := logpkg.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger = logpkg.New(logpkg.Options{Level: parsed, Format: cfg.LogFormat})
			runner = ops.NewRunner(logger, cfg)
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("BAGTOOL_CONFIG"), "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text|json")

	// export
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export channels from bags to CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			bags, _ := cmd.Flags().GetStringSlice("bags")
			topics, _ := cmd.Flags().GetStringSlice("topics")
			outdir, _ := cmd.Flags().GetString("outdir")
			filter, _ := cmd.Flags().GetString("filter")
			compress, _ := cmd.Flags().GetBool("compress")
			return runner.Export(signalContext(), ops.ExportRequest{
				Bags:     bags,
				Topics:   topics,
				OutDir:   outdir,
				Filter:   filter,
				Compress: compress,
			})
		},
	}
	exportCmd.Flags().StringSliceP("bags", "b", nil, "Paths to the bags to process")
	exportCmd.Flags().StringSliceP("topics", "t", nil, "Names of the channels to export")
	exportCmd.Flags().String("outdir", "", "Directory to place CSV files (default: each bag's directory)")
	exportCmd.Flags().String("filter", "", "CEL expression over channel, ts_sec, size, text, json")
	exportCmd.Flags().Bool("compress", false, "Gzip-compress CSV output")
	_ = exportCmd.MarkFlagRequired("bags")
	_ = exportCmd.MarkFlagRequired("topics")
	rootCmd.AddCommand(exportCmd)

	// pick
	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "Write bags containing only the chosen channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Pick(signalContext(), filterRequest(cmd))
		},
	}
	addFilterFlags(pickCmd)
	rootCmd.AddCommand(pickCmd)

	// remove
	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Write bags containing all channels except the chosen ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Remove(signalContext(), filterRequest(cmd))
		},
	}
	addFilterFlags(removeCmd)
	rootCmd.AddCommand(removeCmd)

	// info
	infoCmd := &cobra.Command{
		Use:   "info <bag>",
		Short: "Show a bag's channels and record counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := runner.Info(signalContext(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("path:     %s\n", info.Path)
			fmt.Printf("id:       %s\n", info.ID)
			if info.CreatedAtMs > 0 {
				fmt.Printf("created:  %s\n", time.UnixMilli(info.CreatedAtMs).Format(time.RFC3339))
			}
			fmt.Printf("records:  %d\n", info.Records)
			fmt.Printf("channels: %d\n", len(info.Channels))
			for _, ch := range info.Channels {
				fmt.Printf("  %-40s %d\n", ch.Name, ch.Count)
			}
			return nil
		},
	}
	rootCmd.AddCommand(infoCmd)

	// import
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Build a bag from a JSON-lines stream",
		Long:  `Reads lines of {"channel": "...", "time_sec": 1.5, "data": {...}} and appends them to a new bag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			bagPath, _ := cmd.Flags().GetString("bag")
			var src io.Reader = os.Stdin
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			n, err := runner.Import(signalContext(), src, bagPath)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d records into %s\n", n, bagPath)
			return nil
		},
	}
	importCmd.Flags().StringP("input", "i", "-", "JSON-lines input file ('-' for stdin)")
	importCmd.Flags().StringP("bag", "b", "", "Path of the bag to create")
	_ = importCmd.MarkFlagRequired("bag")
	rootCmd.AddCommand(importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("bags", "b", nil, "Paths to the bags to process")
	cmd.Flags().StringSliceP("topics", "t", nil, "Names of the channels")
	cmd.Flags().String("postfix", "", "Postfix for output bag names (default from config: .filtered)")
	cmd.Flags().String("outdir", "", "Directory to place output bags (default: each bag's directory)")
	cmd.Flags().String("filter", "", "CEL expression over channel, ts_sec, size, text, json")
	_ = cmd.MarkFlagRequired("bags")
	_ = cmd.MarkFlagRequired("topics")
}

func filterRequest(cmd *cobra.Command) ops.FilterRequest {
	bags, _ := cmd.Flags().GetStringSlice("bags")
	topics, _ := cmd.Flags().GetStringSlice("topics")
	postfix, _ := cmd.Flags().GetString("postfix")
	outdir, _ := cmd.Flags().GetString("outdir")
	filter, _ := cmd.Flags().GetString("filter")
	return ops.FilterRequest{
		Bags:    bags,
		Topics:  topics,
		OutDir:  outdir,
		Postfix: postfix,
		Filter:  filter,
	}
}

func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
