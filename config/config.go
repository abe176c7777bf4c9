// Package config 提供了统一的配置加载与校验能力（viper + validator）。
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix 是环境变量覆盖配置时使用的前缀，例如 PROBKIT_NAIVE_BAYES_WORKERS=4。
const EnvPrefix = "PROBKIT"

// Config 全局顶级配置结构.
type Config struct {
	Log        LogConfig        `mapstructure:"log"         toml:"log"`
	NaiveBayes NaiveBayesConfig `mapstructure:"naive_bayes" toml:"naive_bayes"`
	Report     ReportConfig     `mapstructure:"report"      toml:"report"`
	Metrics    MetricsConfig    `mapstructure:"metrics"     toml:"metrics"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level"       validate:"oneof=debug info warn error"` // 日志级别。
	Format     string `mapstructure:"format"      toml:"format"      validate:"oneof=text json"`             // 日志格式（json/text）。
	File       string `mapstructure:"file"        toml:"file"`                                               // 日志文件路径。
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"    validate:"min=0"`                       // 单个文件最大大小 (MB)。
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups" validate:"min=0"`                       // 最大备份数。
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"     validate:"min=0"`                       // 最大保留天数。
	Compress   bool   `mapstructure:"compress"    toml:"compress"`                                           // 是否启用压缩。
}

// NaiveBayesConfig 定义分类数据集的列约定与执行参数.
type NaiveBayesConfig struct {
	TargetColumn string `mapstructure:"target_column" toml:"target_column"`
	CountColumn  string `mapstructure:"count_column"  toml:"count_column"  validate:"required"`
	Positional   bool   `mapstructure:"positional"    toml:"positional"` // 按末尾两列（计数、目标）截断查询行。
	Delimiter    string `mapstructure:"delimiter"     toml:"delimiter"     validate:"omitempty,len=1"`
	Workers      int    `mapstructure:"workers"       toml:"workers"       validate:"min=1,max=256"`
	Precision    int32  `mapstructure:"precision"     toml:"precision"     validate:"min=0,max=15"`
}

// ReportConfig 定义文本报告的展示参数.
type ReportConfig struct {
	Display int `mapstructure:"display" toml:"display" validate:"min=0"` // 详细模式下展示的查询行数。
}

// MetricsConfig 定义指标导出配置.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"  toml:"enabled"`
	Textfile string `mapstructure:"textfile" toml:"textfile" validate:"required_if=Enabled true"`
}

// Default 返回内置默认配置.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text", MaxSize: 10, MaxBackups: 3, MaxAge: 7},
		NaiveBayes: NaiveBayesConfig{
			CountColumn: "n",
			Workers:     1,
			Precision:   4,
		},
		Report: ReportConfig{Display: 5},
	}
}

// Load 读取 TOML 配置文件并叠加环境变量，最后执行结构校验。
// path 为空时只使用默认值与环境变量。
func Load(path string, conf *Config) error {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config error: %w", err)
		}
	}

	if err := v.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}

	return Validate(conf)
}

// Validate 执行 validator 结构体校验.
func Validate(conf *Config) error {
	if err := validator.New().Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// setDefaults 登记全部键，使 AutomaticEnv 能够覆盖文件中未出现的键。
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)

	v.SetDefault("naive_bayes.target_column", d.NaiveBayes.TargetColumn)
	v.SetDefault("naive_bayes.count_column", d.NaiveBayes.CountColumn)
	v.SetDefault("naive_bayes.positional", d.NaiveBayes.Positional)
	v.SetDefault("naive_bayes.delimiter", d.NaiveBayes.Delimiter)
	v.SetDefault("naive_bayes.workers", d.NaiveBayes.Workers)
	v.SetDefault("naive_bayes.precision", d.NaiveBayes.Precision)

	v.SetDefault("report.display", d.Report.Display)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)
}
