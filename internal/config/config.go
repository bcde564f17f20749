// Package config resolves grammateus settings from flags, environment, config file and .env.
// Precedence follows viper: explicit flag, then GRAMMATEUS_* environment, then config file,
// then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable viper consults.
const EnvPrefix = "GRAMMATEUS"

// Setting keys.
const (
	KeyLogLevel     = "log-level"
	KeyLogFile      = "log-file"
	KeyVerbose      = "verbose"
	KeyRecursive    = "recursive"
	KeyJobs         = "jobs"
	KeyGeminiAPIKey = "gemini.api-key"
	KeyParamsFile   = "gemini.params-file"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel     string
	LogFile      string
	Verbose      bool
	Recursive    bool
	Jobs         int
	GeminiAPIKey string
	ParamsFile   string
	// ConfigFile is the file that was read, if any.
	ConfigFile string
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyRecursive, false)
	v.SetDefault(KeyJobs, runtime.NumCPU())
	v.SetDefault(KeyGeminiAPIKey, "")
	v.SetDefault(KeyParamsFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file and resolves all settings. An explicit configFile must exist;
// the default location ($XDG_CONFIG_HOME/grammateus/config.yaml) is optional.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "grammateus"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		LogLevel:     v.GetString(KeyLogLevel),
		LogFile:      v.GetString(KeyLogFile),
		Verbose:      v.GetBool(KeyVerbose),
		Recursive:    v.GetBool(KeyRecursive),
		Jobs:         v.GetInt(KeyJobs),
		GeminiAPIKey: v.GetString(KeyGeminiAPIKey),
		ParamsFile:   v.GetString(KeyParamsFile),
		ConfigFile:   v.ConfigFileUsed(),
	}
	if cfg.Jobs < 1 {
		return nil, fmt.Errorf("jobs must be at least 1, got %d", cfg.Jobs)
	}
	return cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}
	return nil
}

// APIKey returns the configured Gemini key, falling back to GEMINI_API_KEY then GOOGLE_API_KEY.
func (c *Config) APIKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}
