package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/probkit/conjugate"
	"github.com/wyfcoding/probkit/report"
)

var conjugateFlags struct {
	mean     float64
	variance float64

	alpha    float64
	beta     float64
	n        int
	k        int
	trueP    float64
	cutoff   float64
	maxSteps int

	theta  float64
	counts []int

	lo, hi    float64
	level     float64
	obs       []float64
	sampleVar float64
	priorMean float64
	priorVar  float64

	r, s      float64
	knownMean float64
}

var conjugateCmd = &cobra.Command{
	Use:   "conjugate",
	Short: "Conjugate prior updates",
}

var betaBinomialCmd = &cobra.Command{
	Use:   "beta-binomial",
	Short: "Beta prior on a success probability updated with k successes in n trials",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &conjugateFlags
		prior := conjugate.Beta{Alpha: f.alpha, Beta: f.beta}
		if cmd.Flags().Changed("mean") {
			var err error
			if prior, err = conjugate.BetaFromMoments(f.mean, f.variance); err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()

		if cmd.Flags().Changed("true-p") {
			maxSteps := f.maxSteps
			if !cmd.Flags().Changed("max-steps") {
				if k, err := conjugate.ExpectedTrials(prior, f.trueP, f.cutoff); err == nil {
					maxSteps = int(math.Ceil(k)) + 1
				}
			}
			steps, err := conjugate.ConvergencePath(prior, f.trueP, f.cutoff, maxSteps)
			if err != nil {
				return err
			}
			return report.ConvergencePath(out, steps)
		}

		post, err := conjugate.BetaBinomialUpdate(f.n, f.k, prior)
		if err != nil {
			return err
		}
		return report.Values(out, fmt.Sprintf("Beta posterior, n=%d k=%d", f.n, f.k),
			report.Pair{Name: "prior alpha", Value: prior.Alpha},
			report.Pair{Name: "prior beta", Value: prior.Beta},
			report.Pair{Name: "alpha", Value: post.Params.Alpha},
			report.Pair{Name: "beta", Value: post.Params.Beta},
			report.Pair{Name: "E[p|data]", Value: post.Mean},
			report.Pair{Name: "Var[p|data]", Value: post.Variance},
		)
	},
}

var gammaPoissonCmd = &cobra.Command{
	Use:   "gamma-poisson",
	Short: "Gamma prior on a Poisson rate updated with observed counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &conjugateFlags
		prior := conjugate.Gamma{Theta: f.theta, Beta: f.beta}
		if cmd.Flags().Changed("mean") {
			var err error
			if prior, err = conjugate.GammaFromMoments(f.mean, f.variance); err != nil {
				return err
			}
		}
		post, err := conjugate.GammaPoissonUpdate(prior, f.counts)
		if err != nil {
			return err
		}
		return report.Values(cmd.OutOrStdout(), fmt.Sprintf("Gamma posterior, %d observations", len(f.counts)),
			report.Pair{Name: "prior theta", Value: prior.Theta},
			report.Pair{Name: "prior beta", Value: prior.Beta},
			report.Pair{Name: "theta", Value: post.Params.Theta},
			report.Pair{Name: "beta", Value: post.Params.Beta},
			report.Pair{Name: "E[rate|data]", Value: post.Mean},
			report.Pair{Name: "Var[rate|data]", Value: post.Variance},
		)
	},
}

var normalCmd = &cobra.Command{
	Use:   "normal",
	Short: "Normal prior on a mean with known sampling variance",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &conjugateFlags
		priorMean, priorVar := f.priorMean, f.priorVar
		if cmd.Flags().Changed("lo") {
			var err error
			if priorMean, priorVar, err = conjugate.ParamsFromInterval(f.lo, f.hi, f.level); err != nil {
				return err
			}
		}
		post, err := conjugate.NormalUpdate(f.obs, f.sampleVar, priorMean, priorVar)
		if err != nil {
			return err
		}
		lo, hi, err := post.CredibleInterval(f.level)
		if err != nil {
			return err
		}
		return report.Values(cmd.OutOrStdout(), fmt.Sprintf("Normal posterior, %d observations", len(f.obs)),
			report.Pair{Name: "prior mean", Value: priorMean},
			report.Pair{Name: "prior variance", Value: priorVar},
			report.Pair{Name: "mean", Value: post.Mean},
			report.Pair{Name: "variance", Value: post.Variance},
			report.Pair{Name: fmt.Sprintf("%v%% lower", f.level), Value: lo},
			report.Pair{Name: fmt.Sprintf("%v%% upper", f.level), Value: hi},
		)
	},
}

var inverseGammaCmd = &cobra.Command{
	Use:   "inverse-gamma",
	Short: "Inverse gamma prior on a normal variance with known mean",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &conjugateFlags
		prior := conjugate.InverseGamma{R: f.r, S: f.s}
		if cmd.Flags().Changed("mean") {
			var err error
			if prior, err = conjugate.InverseGammaFromMoments(f.mean, f.variance); err != nil {
				return err
			}
		}
		post, err := conjugate.InverseGammaUpdate(f.knownMean, f.obs, prior)
		if err != nil {
			return err
		}
		return report.Values(cmd.OutOrStdout(), fmt.Sprintf("Inverse gamma posterior, %d observations", len(f.obs)),
			report.Pair{Name: "prior r", Value: prior.R},
			report.Pair{Name: "prior s", Value: prior.S},
			report.Pair{Name: "r", Value: post.Params.R},
			report.Pair{Name: "s", Value: post.Params.S},
			report.Pair{Name: "E[var|data]", Value: post.Mean},
			report.Pair{Name: "Var[var|data]", Value: post.Variance},
		)
	},
}

func init() {
	f := &conjugateFlags

	bb := betaBinomialCmd.Flags()
	bb.Float64Var(&f.alpha, "alpha", 1, "prior alpha")
	bb.Float64Var(&f.beta, "beta", 1, "prior beta")
	bb.Float64Var(&f.mean, "mean", 0, "prior mean (with --variance, replaces alpha/beta)")
	bb.Float64Var(&f.variance, "variance", 0, "prior variance")
	bb.IntVar(&f.n, "n", 0, "number of trials")
	bb.IntVarP(&f.k, "successes", "k", 0, "number of successes")
	bb.Float64Var(&f.trueP, "true-p", 0, "simulate convergence toward this probability")
	bb.Float64Var(&f.cutoff, "cutoff", 0, "stop the simulation once the posterior mean reaches cutoff")
	bb.IntVar(&f.maxSteps, "max-steps", 10000, "upper bound of simulated steps")
	betaBinomialCmd.MarkFlagsRequiredTogether("mean", "variance")
	betaBinomialCmd.MarkFlagsRequiredTogether("true-p", "cutoff")

	gp := gammaPoissonCmd.Flags()
	gp.Float64Var(&f.theta, "theta", 0, "prior theta (shape minus one)")
	gp.Float64Var(&f.beta, "beta", 1, "prior rate")
	gp.Float64Var(&f.mean, "mean", 0, "prior mean (with --variance, replaces theta/beta)")
	gp.Float64Var(&f.variance, "variance", 0, "prior variance")
	gp.IntSliceVar(&f.counts, "counts", nil, "observed counts")
	gammaPoissonCmd.MarkFlagsRequiredTogether("mean", "variance")

	nn := normalCmd.Flags()
	nn.Float64Var(&f.priorMean, "prior-mean", 0, "prior mean (0 with prior-var 0 is non-informative)")
	nn.Float64Var(&f.priorVar, "prior-var", 0, "prior variance")
	nn.Float64Var(&f.lo, "lo", 0, "lower bound of a prior interval")
	nn.Float64Var(&f.hi, "hi", 0, "upper bound of a prior interval")
	nn.Float64Var(&f.level, "level", 95, "interval level in percent (80, 85, 90, 95, 99, 99.5)")
	nn.Float64SliceVar(&f.obs, "obs", nil, "observations")
	nn.Float64Var(&f.sampleVar, "sample-var", 0, "known sampling variance")
	normalCmd.MarkFlagsRequiredTogether("lo", "hi")
	_ = normalCmd.MarkFlagRequired("obs")
	_ = normalCmd.MarkFlagRequired("sample-var")

	ig := inverseGammaCmd.Flags()
	ig.Float64Var(&f.r, "r", 0, "prior r")
	ig.Float64Var(&f.s, "s", 0, "prior s")
	ig.Float64Var(&f.mean, "mean", 0, "prior mean (with --variance, replaces r/s)")
	ig.Float64Var(&f.variance, "variance", 0, "prior variance")
	ig.Float64Var(&f.knownMean, "known-mean", 0, "known mean of the observations")
	ig.Float64SliceVar(&f.obs, "obs", nil, "observations")
	inverseGammaCmd.MarkFlagsRequiredTogether("mean", "variance")
	_ = inverseGammaCmd.MarkFlagRequired("obs")

	conjugateCmd.AddCommand(betaBinomialCmd, gammaPoissonCmd, normalCmd, inverseGammaCmd)
	rootCmd.AddCommand(conjugateCmd)
}
