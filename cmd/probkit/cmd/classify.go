package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wyfcoding/probkit/config"
	"github.com/wyfcoding/probkit/dataset"
	"github.com/wyfcoding/probkit/metrics"
	"github.com/wyfcoding/probkit/naivebayes"
	"github.com/wyfcoding/probkit/report"
	"github.com/wyfcoding/probkit/xerrors"
)

var classifyFlags struct {
	target     string
	count      string
	delimiter  string
	positional bool
	workers    int
	precision  int32
	verbose    bool
	display    int
}

var classifyCmd = &cobra.Command{
	Use:   "classify FILE",
	Short: "Naive Bayes posterior for every unlabeled row of a dataset",
	Long: `Reads a delimited file with a header row. Rows with a non-empty target
value are training evidence weighted by the count column; rows with an
empty target are queries. For each query the posterior over every
category seen in training is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVar(&classifyFlags.target, "target", "", "target (label) column")
	f.StringVar(&classifyFlags.count, "count", "", "count column (default \"n\")")
	f.StringVar(&classifyFlags.delimiter, "delimiter", "", "field delimiter (default by extension)")
	f.BoolVar(&classifyFlags.positional, "positional", false, "count and target are the last two columns; strip them from queries")
	f.IntVar(&classifyFlags.workers, "workers", 0, "number of queries evaluated concurrently")
	f.Int32Var(&classifyFlags.precision, "precision", 0, "decimal places of the printed posterior")
	f.BoolVarP(&classifyFlags.verbose, "verbose", "v", false, "print per-category details")
	f.IntVar(&classifyFlags.display, "display", 0, "number of queries printed in detail with --verbose")
	rootCmd.AddCommand(classifyCmd)
}

// applyClassifyFlags 将显式给出的命令行参数覆盖到配置上。
func applyClassifyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	nb := &conf.NaiveBayes
	if f.Changed("target") {
		nb.TargetColumn = classifyFlags.target
	}
	if f.Changed("count") {
		nb.CountColumn = classifyFlags.count
	}
	if f.Changed("delimiter") {
		nb.Delimiter = classifyFlags.delimiter
	}
	if f.Changed("positional") {
		nb.Positional = classifyFlags.positional
	}
	if f.Changed("workers") {
		nb.Workers = classifyFlags.workers
	}
	if f.Changed("precision") {
		nb.Precision = classifyFlags.precision
	}
	if f.Changed("display") {
		conf.Report.Display = classifyFlags.display
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	applyClassifyFlags(cmd)
	if err := config.Validate(&conf); err != nil {
		return err
	}
	nb := conf.NaiveBayes
	if nb.TargetColumn == "" {
		return xerrors.InvalidArg("target column is required").WithDetail("set --target or naive_bayes.target_column")
	}

	opts := []naivebayes.Option{
		naivebayes.WithLogger(logger.Named("naivebayes")),
		naivebayes.WithWorkers(nb.Workers),
		naivebayes.WithPrecision(nb.Precision),
	}
	if nb.Delimiter != "" {
		opts = append(opts, naivebayes.WithLoadOptions(dataset.Options{Delimiter: []rune(nb.Delimiter)[0]}))
	}

	var m *metrics.Metrics
	if conf.Metrics.Enabled {
		m = metrics.NewMetrics("probkit")
		m.RegisterBuildInfo(Version)
		opts = append(opts, naivebayes.WithMetrics(m))
	}

	classifier := naivebayes.NewClassifier(naivebayes.Schema{
		TargetColumn: nb.TargetColumn,
		CountColumn:  nb.CountColumn,
		Positional:   nb.Positional,
	}, opts...)

	results, err := classifier.ClassifyFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	detail := 0
	if classifyFlags.verbose {
		detail = conf.Report.Display
	}
	if err := report.NaiveBayes(cmd.OutOrStdout(), results, detail); err != nil {
		return err
	}

	if m != nil {
		if err := m.WriteTextfile(conf.Metrics.Textfile); err != nil {
			logger.WarnContext(cmd.Context(), "write metrics textfile failed", "path", conf.Metrics.Textfile, "error", err)
		}
	}
	return nil
}
