package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/probkit/report"
	"github.com/wyfcoding/probkit/variance"
	"github.com/wyfcoding/probkit/xerrors"
)

var varianceFlags struct {
	variances []float64
	means     []float64
	weights   []float64
	k         int
	p         []float64
}

var varianceCmd = &cobra.Command{
	Use:   "variance",
	Short: "Total variance from per-group variances, means and weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := variance.Decompose(varianceFlags.variances, varianceFlags.means, varianceFlags.weights)
		if err != nil {
			return err
		}
		return report.Decomposition(cmd.OutOrStdout(), d)
	},
}

var mixtureCmd = &cobra.Command{
	Use:   "mixture",
	Short: "Moments of a weighted mixture of binomials with k trials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(varianceFlags.p) != len(varianceFlags.weights) {
			return xerrors.InvalidArg("mixture size mismatch").WithDetail("%d probabilities but %d weights", len(varianceFlags.p), len(varianceFlags.weights))
		}
		mix := make([]variance.Component, len(varianceFlags.p))
		for i, p := range varianceFlags.p {
			mix[i] = variance.Component{P: p, Weight: varianceFlags.weights[i]}
		}
		m, err := variance.BinomialMixture(varianceFlags.k, mix)
		if err != nil {
			return err
		}
		pairs := make([]report.Pair, 0, len(m.PMF)+3)
		for x, p := range m.PMF {
			pairs = append(pairs, report.Pair{Name: fmt.Sprintf("P(X = %d)", x), Value: p})
		}
		pairs = append(pairs,
			report.Pair{Name: "E[X]", Value: m.Mean},
			report.Pair{Name: "E[X^2]", Value: m.MeanSq},
			report.Pair{Name: "Var[X]", Value: m.Variance},
		)
		return report.Values(cmd.OutOrStdout(), fmt.Sprintf("Binomial mixture, k=%d", varianceFlags.k), pairs...)
	},
}

func init() {
	varianceCmd.Flags().Float64SliceVar(&varianceFlags.variances, "variances", nil, "per-group variances")
	varianceCmd.Flags().Float64SliceVar(&varianceFlags.means, "means", nil, "per-group means")
	varianceCmd.PersistentFlags().Float64SliceVar(&varianceFlags.weights, "weights", nil, "per-group weights")

	mixtureCmd.Flags().IntVar(&varianceFlags.k, "k", 0, "number of trials")
	mixtureCmd.Flags().Float64SliceVar(&varianceFlags.p, "p", nil, "success probability of each component")
	_ = mixtureCmd.MarkFlagRequired("k")

	varianceCmd.AddCommand(mixtureCmd)
	rootCmd.AddCommand(varianceCmd)
}
