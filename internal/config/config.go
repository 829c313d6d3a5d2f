package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Tools    ToolsConfig    `yaml:"tools" mapstructure:"tools"`
	OCR      OCRConfig      `yaml:"ocr" mapstructure:"ocr"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ToolsConfig locates the external programs.
type ToolsConfig struct {
	PdfToTextPath   string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	GhostscriptPath string `yaml:"ghostscript_path" mapstructure:"ghostscript_path"`
	TesseractPath   string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-invocation bound; zero means none.
func (c ToolsConfig) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// OCRConfig configures the OCR fallback.
type OCRConfig struct {
	TesseractArgs string `yaml:"tesseract_args" mapstructure:"tesseract_args"`
	Workers       int    `yaml:"workers" mapstructure:"workers"`
	TempDir       string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// PipelineConfig configures the conversion controller.
type PipelineConfig struct {
	// ExitZeroOnError logs failures and still exits 0.
	ExitZeroOnError bool `yaml:"exit_zero_on_error" mapstructure:"exit_zero_on_error"`
}

// StoreConfig configures the run history database. An empty Path disables it.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// WatchConfig configures directory watch mode.
type WatchConfig struct {
	DebounceMS    int     `yaml:"debounce_ms" mapstructure:"debounce_ms"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst         int     `yaml:"burst" mapstructure:"burst"`
	ExtractorArgs string  `yaml:"extractor_args" mapstructure:"extractor_args"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// File receives log output (appended). Empty logs to stderr.
	File string `yaml:"file" mapstructure:"file"`
}

// Load reads configuration from file and environment. If path is empty,
// config.yaml is looked up in the working directory and may be absent.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("OCRPDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("tools.pdftotext_path", "pdftotext")
	v.SetDefault("tools.ghostscript_path", "gs")
	v.SetDefault("tools.tesseract_path", "tesseract")
	v.SetDefault("tools.timeout_secs", 0)
	v.SetDefault("ocr.tesseract_args", "-l eng")
	v.SetDefault("ocr.workers", 1)
	v.SetDefault("ocr.temp_dir", "")
	v.SetDefault("pipeline.exit_zero_on_error", false)
	v.SetDefault("store.path", "")
	v.SetDefault("watch.debounce_ms", 2000)
	v.SetDefault("watch.rate_per_sec", 1.0)
	v.SetDefault("watch.burst", 1)
	v.SetDefault("watch.extractor_args", "")
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "ocr_pdftotext.log")

	// Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// YAML renders the effective configuration in config-file form.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, eris.Wrap(err, "config: marshal yaml")
	}
	return out, nil
}

// InitLogger builds a zap logger for cfg, installs it as the global logger
// and returns it.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}

// Validate checks the settings required by the given command mode
// ("convert", "watch" or "history").
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "convert", "watch":
		if c.Tools.PdfToTextPath == "" {
			errs = append(errs, "tools.pdftotext_path is required")
		}
		if c.Tools.GhostscriptPath == "" {
			errs = append(errs, "tools.ghostscript_path is required")
		}
		if c.Tools.TesseractPath == "" {
			errs = append(errs, "tools.tesseract_path is required")
		}
		if c.Tools.TimeoutSecs < 0 {
			errs = append(errs, "tools.timeout_secs must be >= 0")
		}
		if c.OCR.Workers < 1 || c.OCR.Workers > 64 {
			errs = append(errs, "ocr.workers must be between 1 and 64")
		}
	case "history":
		if c.Store.Path == "" {
			errs = append(errs, "store.path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "watch" {
		if c.Watch.RatePerSec <= 0 {
			errs = append(errs, "watch.rate_per_sec must be > 0")
		}
		if c.Watch.Burst < 1 {
			errs = append(errs, "watch.burst must be >= 1")
		}
		if c.Watch.DebounceMS < 0 {
			errs = append(errs, "watch.debounce_ms must be >= 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}
