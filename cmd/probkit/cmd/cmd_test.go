package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wyfcoding/probkit/config"
	"github.com/wyfcoding/probkit/xerrors"
)

// resetState 将全局配置与全部命令的标志恢复到默认值，命令之间不共享上一次执行的状态。
func resetState() {
	conf = config.Default()
	enumerateFlags.pmf = map[string]string{}
	resetFlags(rootCmd)
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, args...)
	return out, err
}

func runWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetState()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), errOut.String(), err
}

func writeColors(t *testing.T) string {
	t.Helper()
	data := filepath.Join(t.TempDir(), "colors.csv")
	src := "color,n,label\nred,10,A\nblue,5,A\nred,2,B\nblue,8,B\nred,,\n"
	if err := os.WriteFile(data, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "colors.csv")
	src := "color,n,label\nred,10,A\nblue,5,A\nred,2,B\nblue,8,B\nred,,\n"
	if err := os.WriteFile(data, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	textfile := filepath.Join(dir, "probkit.prom")
	cfg := filepath.Join(dir, "probkit.toml")
	toml := "[log]\nlevel = \"error\"\n\n[metrics]\nenabled = true\ntextfile = \"" + filepath.ToSlash(textfile) + "\"\n"
	if err := os.WriteFile(cfg, []byte(toml), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "classify", data, "--target", "label", "--config", cfg, "--verbose", "--display", "1")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	for _, want := range []string{"A=0.8333", "B=0.1667", "P(color=red)=0.6667"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	prom, err := os.ReadFile(textfile)
	if err != nil {
		t.Fatalf("metrics textfile: %v", err)
	}
	if !strings.Contains(string(prom), `probkit_naivebayes_queries_total{outcome="classified"} 1`) {
		t.Errorf("textfile:\n%s", prom)
	}
}

func TestCalculatorCommands(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"dist", "binomial", "--n", "10", "--p", "0.5", "--k", "10"}, "0.000977"},
		{[]string{"dist", "geometric", "--mean", "3", "--k", "0"}, "0.25"},
		{[]string{"diagnostic", "--sensitivity", "0.9", "--specificity", "0.95", "--prevalence", "0.01"}, "0.15385"},
		{[]string{"bayes", "--hypothesis", "fair:0.5:0.2", "--hypothesis", "biased:0.5:0.6"}, "0.75"},
		{[]string{"variance", "--variances", "1,4", "--means", "2,6", "--weights", "0.5,0.5"}, "6.5"},
		{[]string{"enumerate", "--pmf", "0=0.5,1=0.5", "--trials", "2", "--cutoff", "1"}, "event probability: 0.75"},
		{[]string{"conjugate", "beta-binomial", "--alpha", "2", "--beta", "2", "--n", "10", "-k", "7"}, "0.642857"},
		{[]string{"conjugate", "gamma-poisson", "--mean", "2", "--variance", "0.5", "--counts", "1,2,3"}, "0.285714"},
		{[]string{"version"}, "probkit v"},
	}
	for _, tc := range cases {
		out, err := run(t, tc.args...)
		if err != nil {
			t.Errorf("%v: %v", tc.args, err)
			continue
		}
		if !strings.Contains(out, tc.want) {
			t.Errorf("%v: output missing %q:\n%s", tc.args, tc.want, out)
		}
	}
}

func TestClassifyPrecision(t *testing.T) {
	data := writeColors(t)

	out, err := run(t, "classify", data, "--target", "label", "--precision", "6")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, "A=0.833333") || !strings.Contains(out, "B=0.166667") {
		t.Errorf("precision 6 not applied:\n%s", out)
	}

	// 上一次执行的 --precision 不能带到下一次。
	out, err = run(t, "classify", data, "--target", "label")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, "A=0.8333") || strings.Contains(out, "0.833333") {
		t.Errorf("default precision expected:\n%s", out)
	}
}

func TestErrorPrintedOnce(t *testing.T) {
	data := writeColors(t)
	_, stderr, err := runWithStderr(t, "classify", data)
	if err == nil {
		t.Fatal("expected missing target error")
	}
	if n := strings.Count(stderr, "target column is required"); n != 1 {
		t.Errorf("error printed %d times:\n%s", n, stderr)
	}
	if strings.Contains(stderr, "Error:") {
		t.Errorf("cobra printed the error as well:\n%s", stderr)
	}
	if got := ExitCode(err); got != 2 {
		t.Errorf("ExitCode = %d, want 2", got)
	}

	_, _, err = runWithStderr(t, "classify", filepath.Join(t.TempDir(), "missing.csv"), "--target", "label")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist through the wrapped error, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{xerrors.InvalidArg("bad flag"), 2},
		{xerrors.Derive(xerrors.ErrMalformedInput, "row 1"), 2},
		{xerrors.Derive(xerrors.ErrZeroMarginal, "query 0"), 2},
		{xerrors.Derive(xerrors.ErrNoConvergence, "200 steps"), 1},
		{errors.New("plain"), 1},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
