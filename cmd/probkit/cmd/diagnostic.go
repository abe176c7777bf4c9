package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/probkit/inference"
	"github.com/wyfcoding/probkit/report"
	"github.com/wyfcoding/probkit/xerrors"
)

var diagnosticFlags struct {
	sensitivity float64
	specificity float64
	prevalence  float64
}

var diagnosticCmd = &cobra.Command{
	Use:   "diagnostic",
	Short: "Positive and negative predictive values of a diagnostic test",
	RunE: func(cmd *cobra.Command, args []string) error {
		pv, err := inference.NewPredictiveValues(diagnosticFlags.sensitivity, diagnosticFlags.specificity, diagnosticFlags.prevalence)
		if err != nil {
			return err
		}
		return report.PredictiveValues(cmd.OutOrStdout(), pv)
	},
}

var hypotheses []string

var bayesCmd = &cobra.Command{
	Use:   "bayes",
	Short: "Bayes table over labeled hypotheses",
	Example: `  probkit bayes --hypothesis fair:0.5:0.2 --hypothesis biased:0.5:0.6`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hs := make([]inference.Hypothesis, 0, len(hypotheses))
		for _, raw := range hypotheses {
			h, err := parseHypothesis(raw)
			if err != nil {
				return err
			}
			hs = append(hs, h)
		}
		tbl, err := inference.NewBayesTable(hs...)
		if err != nil {
			return err
		}
		return report.BayesTable(cmd.OutOrStdout(), tbl)
	},
}

// parseHypothesis 解析 "label:prior:likelihood"。
func parseHypothesis(raw string) (inference.Hypothesis, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return inference.Hypothesis{}, xerrors.InvalidArg("malformed hypothesis").WithDetail("%q, want label:prior:likelihood", raw)
	}
	prior, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return inference.Hypothesis{}, xerrors.Wrap(err, xerrors.ErrInvalidArg, fmt.Sprintf("hypothesis %q: prior", raw))
	}
	likelihood, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return inference.Hypothesis{}, xerrors.Wrap(err, xerrors.ErrInvalidArg, fmt.Sprintf("hypothesis %q: likelihood", raw))
	}
	return inference.Hypothesis{Label: parts[0], Prior: prior, Likelihood: likelihood}, nil
}

func init() {
	f := diagnosticCmd.Flags()
	f.Float64Var(&diagnosticFlags.sensitivity, "sensitivity", 0, "P(T+|D+)")
	f.Float64Var(&diagnosticFlags.specificity, "specificity", 0, "P(T-|D-)")
	f.Float64Var(&diagnosticFlags.prevalence, "prevalence", 0, "P(D+)")
	for _, name := range []string{"sensitivity", "specificity", "prevalence"} {
		_ = diagnosticCmd.MarkFlagRequired(name)
	}

	bayesCmd.Flags().StringArrayVar(&hypotheses, "hypothesis", nil, "label:prior:likelihood (repeatable)")
	_ = bayesCmd.MarkFlagRequired("hypothesis")

	rootCmd.AddCommand(diagnosticCmd, bayesCmd)
}
