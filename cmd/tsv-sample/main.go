package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "tsv-sample [flags] [file ...]",
	Short: "Sample lines from delimited text",
	Long: `tsv-sample reads delimited text from one or more files (or standard input)
and writes a random sample of lines to standard output, under whichever of
Bernoulli, reservoir, distinct, or full-load sampling the given flags call
for.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	RunE:    runSample,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: none)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics on stderr")

	flags := rootCmd.Flags()
	flags.BoolP("header", "H", false, "treat the first line of each file as a header")
	flags.Int64P("num", "n", 0, "sample size; 0 means unbounded")
	flags.Float64P("prob", "p", 0, "Bernoulli/distinct inclusion probability")
	flags.StringP("key-fields", "k", "", "field list for distinct sampling (requires --prob)")
	flags.StringP("weight-field", "w", "", "field to use as a sampling weight")
	flags.BoolP("replace", "r", false, "sample with replacement")
	flags.BoolP("inorder", "i", false, "preserve input order in the output")
	flags.BoolP("static-seed", "s", false, "use the fixed reproducible seed")
	flags.Int64P("seed-value", "V", 0, "explicit seed value (0 = unset)")
	flags.Bool("print-random", false, "prepend the random value used for each line")
	flags.Bool("gen-random-inorder", false, "generate the random value column without reordering")
	flags.String("random-value-header", "random_value", "header name for the random value column")
	flags.Bool("compatibility-mode", false, "force full in-memory sort ordering")
	flags.StringP("delimiter", "d", "\t", "field delimiter byte")
	flags.Bool("prefer-skip-sampling", false, "hint: prefer skip-counter Bernoulli sampling")
	flags.Bool("prefer-algorithm-r", false, "hint: prefer Algorithm R reservoir sampling")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tsv-sample: %v\n", err)
		os.Exit(1)
	}
}
