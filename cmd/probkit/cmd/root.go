package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/probkit/config"
	"github.com/wyfcoding/probkit/logging"
	"github.com/wyfcoding/probkit/xerrors"
)

var (
	cfgFile  string
	logLevel string

	conf   = config.Default()
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "probkit",
	Short: "Bayesian and classical probability calculators",
	Long: `probkit bundles closed-form probability calculators:

  classify    - categorical Naive Bayes posterior over a CSV/TSV dataset
  dist        - binomial, poisson, geometric and uniform distributions
  diagnostic  - positive and negative predictive values of a test
  bayes       - Bayes table over labeled hypotheses
  variance    - conditional variance decomposition and binomial mixtures
  enumerate   - brute-force event probability over repeated draws
  conjugate   - conjugate prior updates`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute 执行根命令，失败时只在错误输出打印一次原因。
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode 将错误映射为进程退出码：错误码的前三位属于 4xx（输入、参数与数据类错误）时为 2，其余为 1。
func ExitCode(err error) int {
	code := xerrors.CodeOf(err)
	for code >= 1000 {
		code /= 1000
	}
	if code >= 400 && code < 500 {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// setup 加载配置并初始化全局日志，命令行参数优先于配置文件与环境变量。
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Load(cfgFile, &conf); err != nil {
		return err
	}
	if logLevel != "" {
		conf.Log.Level = logLevel
	}

	logging.InitLogger(logging.Config{
		Service:    "probkit",
		Module:     cmd.Name(),
		Level:      conf.Log.Level,
		Format:     conf.Log.Format,
		Output:     cmd.ErrOrStderr(),
		File:       conf.Log.File,
		MaxSize:    conf.Log.MaxSize,
		MaxBackups: conf.Log.MaxBackups,
		MaxAge:     conf.Log.MaxAge,
		Compress:   conf.Log.Compress,
	})
	// 全局 Logger 只初始化一次，级别需要按本次配置重新设置。
	logging.SetLevel(conf.Log.Level)
	logger = logging.Default()
	logger.DebugContext(cmd.Context(), "config loaded", "file", cfgFile, "command", cmd.CommandPath())
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
