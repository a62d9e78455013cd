package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	PDF    PDFConfig    `yaml:"pdf" mapstructure:"pdf"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// PDFConfig configures PDF text and table extraction.
type PDFConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// OutputConfig configures where extraction documents are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	UploadDir     string  `yaml:"upload_dir" mapstructure:"upload_dir"`
	MaxUploadMB   int64   `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	UploadsPerSec float64 `yaml:"uploads_per_sec" mapstructure:"uploads_per_sec"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EHF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.upload_dir", "uploads_ehf")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.uploads_per_sec", 1.0)
	v.SetDefault("pdf.provider", "native")
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("output.dir", "extractions")
	v.SetDefault("batch.max_concurrent_documents", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
