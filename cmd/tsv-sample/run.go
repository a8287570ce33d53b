package main

import (
	"fmt"
	"os"

	"github.com/jihwankim/tsv-sample/pkg/config"
	"github.com/jihwankim/tsv-sample/pkg/reporting"
	"github.com/jihwankim/tsv-sample/pkg/sampling"
	"github.com/spf13/cobra"
)

func runSample(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	appCfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := appCfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := reporting.LogLevel(appCfg.Logging.Level)
	if verbose {
		logLevel = reporting.LogLevelDebug
	}
	logger := reporting.NewLogger(reporting.LoggerConfig{
		Level:  logLevel,
		Format: reporting.LogFormat(appCfg.Logging.Format),
		Output: os.Stderr,
	})

	opts, err := buildOptions(flags, appCfg, args)
	if err != nil {
		return err
	}

	src := sampling.NewFileLineSource(opts.Files, opts.HasHeader)
	defer src.Close()

	result, err := sampling.Dispatch(opts, src, os.Stdout)
	if err != nil {
		logger.Error("sampling run failed", "error", err.Error())
		return err
	}

	runLogger := logger.WithField("seed", result.Seed)
	if result.SeedConflict {
		runLogger.Warn("--static-seed and --seed-value both given; --static-seed wins")
	}
	if result.HintIgnored != "" {
		runLogger.Debug("sampling hint ignored", "reason", result.HintIgnored)
	}
	runLogger.Debug("sampling run complete",
		"algorithm", result.Algorithm,
		"seed_source", string(result.SeedFrom),
	)
	return nil
}

// buildOptions translates the parsed flag set into a sampling.Options
// (validated later, by sampling.Dispatch), resolving the field-list flags via
// sampling.ParseFieldList and layering config-file defaults under
// whatever the user actually typed on the command line.
func buildOptions(flags interface {
	GetBool(string) (bool, error)
	GetInt64(string) (int64, error)
	GetFloat64(string) (float64, error)
	GetString(string) (string, error)
	Changed(string) bool
}, appCfg *config.Config, args []string) (*sampling.Options, error) {
	opts := sampling.NewOptions()
	opts.Files = args

	delim, _ := flags.GetString("delimiter")
	if !flags.Changed("delimiter") {
		delim = appCfg.Sampling.Delimiter
	}
	if len(delim) != 1 {
		return nil, fmt.Errorf("--delimiter must be exactly one byte, got %q", delim)
	}
	opts.Delimiter = delim[0]

	opts.HasHeader, _ = flags.GetBool("header")
	opts.SampleSize, _ = flags.GetInt64("num")

	if prob, _ := flags.GetFloat64("prob"); flags.Changed("prob") {
		opts.Prob = prob
		opts.HasProb = true
	}

	if keyList, _ := flags.GetString("key-fields"); keyList != "" {
		specs, err := sampling.ParseFieldList(keyList)
		if err != nil {
			return nil, fmt.Errorf("--key-fields: %w", err)
		}
		opts.KeyFields = specs
	}

	if weightField, _ := flags.GetString("weight-field"); weightField != "" {
		specs, err := sampling.ParseFieldList(weightField)
		if err != nil {
			return nil, fmt.Errorf("--weight-field: %w", err)
		}
		if len(specs) != 1 || specs[0].Whole {
			return nil, fmt.Errorf("--weight-field must name exactly one field")
		}
		opts.WeightField = specs[0]
		opts.HasWeightField = true
	}

	opts.WithReplacement, _ = flags.GetBool("replace")
	opts.PreserveInputOrder, _ = flags.GetBool("inorder")
	opts.PrintRandom, _ = flags.GetBool("print-random")
	opts.GenRandomInorder, _ = flags.GetBool("gen-random-inorder")
	opts.RandomValueHeader, _ = flags.GetString("random-value-header")
	if !flags.Changed("random-value-header") {
		opts.RandomValueHeader = appCfg.Sampling.RandomValueHeader
	}
	opts.CompatibilityMode, _ = flags.GetBool("compatibility-mode")
	if !flags.Changed("compatibility-mode") {
		opts.CompatibilityMode = appCfg.Sampling.CompatibilityMode
	}
	opts.PreferSkipSampling, _ = flags.GetBool("prefer-skip-sampling")
	opts.PreferAlgorithmR, _ = flags.GetBool("prefer-algorithm-r")

	opts.StaticSeed, _ = flags.GetBool("static-seed")
	if !flags.Changed("static-seed") {
		opts.StaticSeed = appCfg.Sampling.StaticSeed
	}
	if seedValue, _ := flags.GetInt64("seed-value"); flags.Changed("seed-value") {
		opts.SeedValue = uint64(seedValue)
		opts.HasSeedValue = true
	}

	return opts, nil
}
