package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/probkit/distribution"
	"github.com/wyfcoding/probkit/report"
)

var distFlags struct {
	k     int
	upper int
	n     int
	p     float64
	mu    float64
	mean  float64
	first int
	last  int
	step  int
}

var distCmd = &cobra.Command{
	Use:   "dist",
	Short: "Discrete distribution probabilities and moments",
}

var binomialCmd = &cobra.Command{
	Use:   "binomial",
	Short: "Exactly k successes in n trials",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := distribution.NewBinomial(distFlags.n, distFlags.p)
		if err != nil {
			return err
		}
		return report.Distribution(cmd.OutOrStdout(), fmt.Sprintf("Binomial(n=%d, p=%v)", distFlags.n, distFlags.p), d, distFlags.k)
	},
}

var poissonCmd = &cobra.Command{
	Use:   "poisson",
	Short: "Number of events in a fixed interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := distribution.NewPoisson(distFlags.mu)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("Poisson(mu=%v)", distFlags.mu)
		if cmd.Flags().Changed("upper") {
			return report.Values(cmd.OutOrStdout(), name, report.Pair{
				Name:  fmt.Sprintf("P(%d <= X <= %d)", distFlags.k, distFlags.upper),
				Value: d.RangeProbability(distFlags.k, distFlags.upper),
			})
		}
		return report.Distribution(cmd.OutOrStdout(), name, d, distFlags.k)
	},
}

var geometricCmd = &cobra.Command{
	Use:   "geometric",
	Short: "Failures before the first success",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := distFlags.p
		if cmd.Flags().Changed("mean") {
			var err error
			if p, err = distribution.GeometricFromMean(distFlags.mean); err != nil {
				return err
			}
		}
		d, err := distribution.NewGeometric(p)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("Geometric(p=%v)", p)
		if err := report.Distribution(cmd.OutOrStdout(), name, d, distFlags.k); err != nil {
			return err
		}
		return report.Values(cmd.OutOrStdout(), "",
			report.Pair{Name: "p", Value: p},
			report.Pair{Name: fmt.Sprintf("P(X > %d)", distFlags.k), Value: d.Survival(distFlags.k)},
		)
	},
}

var uniformCmd = &cobra.Command{
	Use:   "uniform",
	Short: "Equally likely values of a finite sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := distribution.NewUniform(distFlags.first, distFlags.last, distFlags.step)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("Uniform(%v)", d.Values())
		return report.Distribution(cmd.OutOrStdout(), name, d, distFlags.k)
	},
}

func init() {
	binomialCmd.Flags().IntVar(&distFlags.n, "n", 0, "number of trials")
	binomialCmd.Flags().Float64Var(&distFlags.p, "p", 0, "success probability")
	binomialCmd.Flags().IntVar(&distFlags.k, "k", 0, "number of successes")
	_ = binomialCmd.MarkFlagRequired("n")
	_ = binomialCmd.MarkFlagRequired("p")

	poissonCmd.Flags().Float64Var(&distFlags.mu, "mu", 0, "mean number of events")
	poissonCmd.Flags().IntVar(&distFlags.k, "k", 0, "number of events (lower bound with --upper)")
	poissonCmd.Flags().IntVar(&distFlags.upper, "upper", 0, "inclusive upper bound of a range")
	_ = poissonCmd.MarkFlagRequired("mu")

	geometricCmd.Flags().Float64Var(&distFlags.p, "p", 0, "success probability")
	geometricCmd.Flags().Float64Var(&distFlags.mean, "mean", 0, "expected failures; derives p")
	geometricCmd.Flags().IntVar(&distFlags.k, "k", 0, "number of failures")
	geometricCmd.MarkFlagsMutuallyExclusive("p", "mean")
	geometricCmd.MarkFlagsOneRequired("p", "mean")

	uniformCmd.Flags().IntVar(&distFlags.first, "first", 0, "first value")
	uniformCmd.Flags().IntVar(&distFlags.last, "last", 0, "last value (inclusive)")
	uniformCmd.Flags().IntVar(&distFlags.step, "step", 1, "step of the sequence")
	uniformCmd.Flags().IntVar(&distFlags.k, "k", 0, "value for PMF and CDF")
	_ = uniformCmd.MarkFlagRequired("last")

	distCmd.AddCommand(binomialCmd, poissonCmd, geometricCmd, uniformCmd)
	rootCmd.AddCommand(distCmd)
}
