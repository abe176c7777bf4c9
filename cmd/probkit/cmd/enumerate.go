package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/probkit/enumerate"
	"github.com/wyfcoding/probkit/report"
	"github.com/wyfcoding/probkit/xerrors"
)

var enumerateFlags struct {
	pmf    map[string]string
	trials int
	cutoff int
	event  string
}

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "Event probability and conditional expectation by enumerating every sequence of draws",
	Example: `  probkit enumerate --pmf 1=0.5,2=0.5 --trials 3 --cutoff 5
  probkit enumerate --pmf 1=0.5,2=0.5 --trials 3 --event 'outcome[0] == 2 && total >= 5'`,
	RunE: runEnumerate,
}

func init() {
	f := enumerateCmd.Flags()
	f.StringToStringVar(&enumerateFlags.pmf, "pmf", nil, "value=probability pairs")
	f.IntVar(&enumerateFlags.trials, "trials", 1, "number of draws")
	f.IntVar(&enumerateFlags.cutoff, "cutoff", 0, "event: sum of the draws is at least cutoff")
	f.StringVar(&enumerateFlags.event, "event", "", "event expression over outcome and total")
	_ = enumerateCmd.MarkFlagRequired("pmf")
	enumerateCmd.MarkFlagsMutuallyExclusive("cutoff", "event")
	enumerateCmd.MarkFlagsOneRequired("cutoff", "event")
	rootCmd.AddCommand(enumerateCmd)
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	pmf := make(map[int]float64, len(enumerateFlags.pmf))
	for k, v := range enumerateFlags.pmf {
		value, err := strconv.Atoi(k)
		if err != nil {
			return xerrors.Wrap(err, xerrors.ErrInvalidArg, fmt.Sprintf("pmf value %q", k))
		}
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return xerrors.Wrap(err, xerrors.ErrInvalidArg, fmt.Sprintf("pmf probability of %d", value))
		}
		pmf[value] = p
	}

	event := enumerate.AtLeast(enumerateFlags.cutoff)
	if cmd.Flags().Changed("event") {
		var err error
		if event, err = enumerate.CompileEvent(enumerateFlags.event); err != nil {
			return err
		}
	}

	res, err := enumerate.Enumerate(pmf, enumerateFlags.trials, event)
	if err != nil {
		return err
	}
	logger.DebugContext(cmd.Context(), "enumeration finished", "outcomes", res.Outcomes, "groups", len(res.Groups))
	return report.Enumeration(cmd.OutOrStdout(), res)
}
