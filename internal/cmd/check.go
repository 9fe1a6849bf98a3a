package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cargofree/cargo-free/internal/config"
	"github.com/cargofree/cargo-free/internal/core"
	"github.com/cargofree/cargo-free/internal/core/engine"
	"github.com/cargofree/cargo-free/internal/core/resolver"
	"github.com/cargofree/cargo-free/internal/metrics"
	"github.com/cargofree/cargo-free/internal/observability"
	"github.com/cargofree/cargo-free/internal/output"
	"github.com/cargofree/cargo-free/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [NAME...]",
	Short: "Check crate name availability",
	Long: `Check whether each NAME is registered on crates.io.

Names are sent exactly as given: no trimming, no lowercasing. A single name
prints just its verdict; several names print one aligned line each.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCheck,
}

// checkFlagKeys maps check flags to the config keys they override.
var checkFlagKeys = map[string]string{
	"output":      "output.format",
	"timeout":     "lookup.timeout",
	"concurrency": "lookup.concurrency",
	"show-errors": "output.show_errors",
	"color":       "output.color",
	"emoji":       "output.emoji",
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addCheckFlags(checkCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("json", false, "Structured JSON output (same as --output json)")
	flags.StringP("output", "o", "text", "Output format: text, json, yaml, table, markdown")
	flags.Duration("timeout", resolver.DefaultTimeout, "Per-name lookup timeout")
	flags.Int("concurrency", engine.DefaultConcurrency, "Maximum lookups in flight")
	flags.String("names-file", "", "Read names from a file, one per line (- for stdin)")
	flags.Bool("show-errors", false, "Render failed lookups instead of omitting them")
	flags.String("color", output.ColorAuto, "Colorize verdicts: auto, always, never")
	flags.Bool("emoji", false, "Prefix verdicts with an emoji")
	flags.Bool("no-progress", false, "Disable the progress spinner")
	flags.String("out", "", "Write results to a file instead of stdout")
}

// checkOptions are the per-invocation settings that do not live in Config.
type checkOptions struct {
	out      io.Writer
	errOut   io.Writer
	spinner  bool
	colorTTY bool
	version  string
	// newResolver builds the registry resolver; nil uses newRegistryResolver.
	newResolver func(ctx context.Context, cfg *config.Config, version string) engine.Resolver
}

func newRegistryResolver(ctx context.Context, cfg *config.Config, version string) engine.Resolver {
	return &resolver.Resolver{
		Client:      resolver.NewHTTPClient(ctx, resolver.WithDNSRefresh(cfg.Registry.DNSRefresh)),
		BaseURL:     cfg.Registry.BaseURL,
		UserAgent:   cfg.Registry.UserAgent,
		ToolVersion: version,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}

	namesFile, err := cmd.Flags().GetString("names-file")
	if err != nil {
		return err
	}
	names, err := resolveNames(args, namesFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return engine.ErrNoNames
	}

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	sink, err := openSink(outPath, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer sink.close() // nolint:errcheck // best-effort close; write errors surface from Render

	return executeCheck(cmd.Context(), cfg, names, checkOptions{
		out:      sink.writer,
		errOut:   cmd.ErrOrStderr(),
		spinner:  isTerminal(cmd.ErrOrStderr()),
		colorTTY: isTerminal(sink.writer),
		version:  versionInfo.Version,
	})
}

// loadCommandConfig binds the running command's flags and decodes the
// effective configuration.
func loadCommandConfig(cmd *cobra.Command) (*config.Config, error) {
	if configErr != nil {
		return nil, &ConfigError{Err: configErr}
	}

	v := viper.GetViper()
	for flagName, key := range checkFlagKeys {
		if flag := cmd.Flags().Lookup(flagName); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		v.Set("output.format", string(output.FormatJSON))
	}
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		v.Set("output.progress", false)
	}
	if verbose {
		v.Set("logging.level", "debug")
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

func executeCheck(ctx context.Context, cfg *config.Config, names []string, opts checkOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := observability.CLILogger

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	color, err := output.ResolveColor(cfg.Output.Color, opts.colorTTY)
	if err != nil {
		return err
	}

	clientCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.newResolver == nil {
		opts.newResolver = newRegistryResolver
	}
	spin := progress.New(opts.errOut, len(names), opts.spinner && cfg.Output.Progress && !format.Structured())

	runner := &engine.Runner{
		Resolver:    opts.newResolver(clientCtx, cfg, opts.version),
		Timeout:     cfg.Lookup.Timeout,
		Concurrency: cfg.Lookup.Concurrency,
		OnResult: func(result core.LookupResult) {
			spin.Increment()
			metrics.RecordLookup(result)
			if logger != nil {
				logger.Debug("lookup finished",
					zap.String("crate", result.Name),
					zap.String("availability", result.Availability.String()),
					zap.Int("status", result.StatusCode),
					zap.Duration("elapsed", result.Elapsed),
					zap.Error(result.Err))
			}
		},
	}

	startedAt := time.Now()
	spin.Start()
	batch, err := runner.ResolveAll(ctx, names)
	spin.Stop()
	if err != nil {
		return err
	}

	elapsed := time.Since(startedAt)
	metrics.RecordBatch(batch.Len(), elapsed)
	if logger != nil {
		logger.Debug("batch finished",
			zap.Int("names", batch.Len()),
			zap.Int("failed", len(batch.Failed())),
			zap.Duration("elapsed", elapsed),
			zap.String("throughput", throughput(batch.Len(), elapsed)))
	}

	return output.Render(opts.out, batch, output.Options{
		Format:     format,
		Style:      output.Style{Color: color, Emoji: cfg.Output.Emoji},
		ShowErrors: cfg.Output.ShowErrors,
	})
}

func throughput(count int, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f names/s", float64(count)/elapsed.Seconds())
}
