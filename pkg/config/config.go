package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	BodyLimitMB int    `mapstructure:"body_limit_mb"`
}

type ClassifierConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	BreakerMaxFails   uint32 `mapstructure:"breaker_max_failures"`
	BreakerTimeoutSec int    `mapstructure:"breaker_timeout_seconds"`
}

type ProcessingConfig struct {
	UploadDir     string `mapstructure:"upload_dir"`
	ProcessedDir  string `mapstructure:"processed_dir"`
	TagName       string `mapstructure:"tag_name"`
	MaxWorkers    int    `mapstructure:"max_workers"`
	SkipTagging   bool   `mapstructure:"skip_tagging"`
	UseFirstMatch bool   `mapstructure:"use_first_match"`
}

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	EnableLatency bool `mapstructure:"enable_latency"`
}

var globalConfig Config

func Load(configPath string) error {
	globalConfig = Config{}
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return err
	}

	setDefaultValues()
	applyEnvOverrides()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
		}
		// no config file is fine, environment variables cover the contract
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Host == "" {
		globalConfig.Server.Host = "0.0.0.0"
	}
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Server.BodyLimitMB == 0 {
		globalConfig.Server.BodyLimitMB = 50
	}
	if globalConfig.Classifier.BaseURL == "" {
		globalConfig.Classifier.BaseURL = "https://classiapi.data443.com"
	}
	if globalConfig.Classifier.RequestsPerMinute == 0 {
		globalConfig.Classifier.RequestsPerMinute = 60
	}
	if globalConfig.Classifier.TimeoutSeconds == 0 {
		globalConfig.Classifier.TimeoutSeconds = 60
	}
	if globalConfig.Classifier.BreakerMaxFails == 0 {
		globalConfig.Classifier.BreakerMaxFails = 5
	}
	if globalConfig.Classifier.BreakerTimeoutSec == 0 {
		globalConfig.Classifier.BreakerTimeoutSec = 30
	}
	if globalConfig.Processing.UploadDir == "" {
		globalConfig.Processing.UploadDir = "uploads"
	}
	if globalConfig.Processing.ProcessedDir == "" {
		globalConfig.Processing.ProcessedDir = "processed"
	}
	if globalConfig.Processing.TagName == "" {
		globalConfig.Processing.TagName = "Data Class"
	}
	if globalConfig.Processing.MaxWorkers == 0 {
		globalConfig.Processing.MaxWorkers = 5
	}
}

// applyEnvOverrides honors the flat variable names of the deployment
// contract (PORT, API_BASE_URL, ...), which take precedence over both the
// YAML file and the nested SERVER_PORT style bindings.
func applyEnvOverrides() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			globalConfig.Server.Port = port
		}
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		globalConfig.Classifier.BaseURL = v
	}
	if v := os.Getenv("TAG_NAME"); v != "" {
		globalConfig.Processing.TagName = v
	}
	if v := os.Getenv("MAX_WORKERS"); v != "" {
		if workers, err := strconv.Atoi(v); err == nil && workers > 0 {
			globalConfig.Processing.MaxWorkers = workers
		}
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		globalConfig.Processing.UploadDir = v
	}
	if v := os.Getenv("PROCESSED_DIR"); v != "" {
		globalConfig.Processing.ProcessedDir = v
	}
}

func GetConfig() *Config {
	return &globalConfig
}
