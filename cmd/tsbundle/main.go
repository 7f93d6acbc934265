package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsbundle/tsbundle/internal/builder"
	"github.com/tsbundle/tsbundle/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:   "tsbundle",
		Short: "Flatten a TypeScript module tree into a single self-contained file",
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("tsbundle 0.1.0-dev")
		},
	}
}

func newBuildCmd() *cobra.Command {
	var (
		entry          string
		out            string
		rootDir        string
		configFile     string
		ignore         []string
		resourceSuffix string
		logLevel       string
		logFormat      string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bundle an entry file and its imports into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel, logFormat)

			cfg := &config.Config{}
			if configFile != "" {
				loaded, err := config.Load(configFile)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// Flags win over config file values.
			if entry != "" {
				cfg.Entry = entry
			}
			if out != "" {
				cfg.OutputDir = out
			}
			if rootDir != "" {
				cfg.Root = rootDir
			}
			if resourceSuffix != "" {
				cfg.ResourceSuffix = resourceSuffix
			}
			cfg.IgnoredNamespaces = append(cfg.IgnoredNamespaces, ignore...)

			if err := cfg.Finalize(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			result, err := builder.New().
				WithConfig(cfg).
				WithLogger(logger).
				Build(cmd.Context())
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), result)
			logger.Info().
				Int("files", result.Files).
				Int("keys", result.Keys).
				Str("bundle", result.BundlePath).
				Msg("bundle complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&entry, "entry", "e", "", "entry source file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory for both artifacts")
	cmd.Flags().StringVar(&rootDir, "root", "", "project root (default: working directory)")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "project configuration file (YAML)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "namespace provided by the target runtime (repeatable)")
	cmd.Flags().StringVar(&resourceSuffix, "resource-suffix", "", "resource document file name suffix (default: "+config.DefaultResourceSuffix+")")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	return cmd
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stderr
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func printSummary(w io.Writer, r *builder.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Files", "Keys", "Bundle", "Resources"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{
		strconv.Itoa(r.Files),
		strconv.Itoa(r.Keys),
		r.BundlePath,
		r.ResourcePath,
	})
	table.Render()
}
