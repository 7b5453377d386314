package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/spend-squad/internal/common"
	"github.com/Veraticus/spend-squad/internal/pattern"
	"github.com/Veraticus/spend-squad/internal/storage"
)

// EnvPrefix prefixes every environment override, e.g. SPEND_DATABASE_PATH.
const EnvPrefix = "SPEND"

// Viper keys.
const (
	KeyDatabaseBackend = "database.backend"
	KeyDatabasePath    = "database.path"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyImportRules     = "import.rules"
)

// Settings is the validated configuration.
type Settings struct {
	Database DatabaseSettings
	Logging  LoggingSettings
	Import   ImportSettings
}

// DatabaseSettings selects the storage backend.
type DatabaseSettings struct {
	Backend string
	Path    string
}

// LoggingSettings configures slog.
type LoggingSettings struct {
	Level  string
	Format string
}

// ImportSettings holds the payee rules statement imports categorize with.
type ImportSettings struct {
	Rules []pattern.Rule
}

// ruleConfig is one entry under import.rules, e.g.
//
//	import:
//	  rules:
//	    - payee: "starbucks|coffee"
//	      regex: true
//	      category: food
//	      amount: "<20"
type ruleConfig struct {
	Name     string `mapstructure:"name"`
	Payee    string `mapstructure:"payee"`
	Category string `mapstructure:"category"`
	Amount   string `mapstructure:"amount"`
	Priority int    `mapstructure:"priority"`
	Regex    bool   `mapstructure:"regex"`
}

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabaseBackend, storage.BackendSQLite)
	v.SetDefault(KeyDatabasePath, filepath.Join(DefaultDataDir(), "spend.db"))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// ReadConfigFile reads cfgFile, or config.yaml from the default config
// directory and the working directory. A missing default file is not an error.
func ReadConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(ExpandPath(cfgFile))
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// LoadDotEnv loads environment variables from a .env file. With no path it
// tries ./.env and ignores a missing file; an explicit path must exist.
func LoadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(ExpandPath(path)); err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Database: DatabaseSettings{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(KeyDatabaseBackend))),
			Path:    ExpandPath(strings.TrimSpace(v.GetString(KeyDatabasePath))),
		},
		Logging: LoggingSettings{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
	}

	rules, err := loadRules(v)
	if err != nil {
		return Settings{}, err
	}
	s.Import.Rules = rules

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func loadRules(v *viper.Viper) ([]pattern.Rule, error) {
	var raw []ruleConfig
	if err := v.UnmarshalKey(KeyImportRules, &raw); err != nil {
		return nil, fmt.Errorf("%w: import rules: %w", common.ErrInvalidConfig, err)
	}

	rules := make([]pattern.Rule, 0, len(raw))
	for i, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = fmt.Sprintf("rule %d", i+1)
		}
		cond, err := pattern.ParseCondition(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("import rule %q: %w", name, err)
		}
		rules = append(rules, pattern.Rule{
			Name:     name,
			Payee:    r.Payee,
			Category: strings.TrimSpace(r.Category),
			Amount:   cond,
			Priority: r.Priority,
			IsRegex:  r.Regex,
		})
	}
	return rules, nil
}

// Validate checks every field.
func (s Settings) Validate() error {
	switch s.Database.Backend {
	case storage.BackendSQLite, storage.BackendBolt:
	default:
		return fmt.Errorf("%w: unknown database backend %q", common.ErrInvalidConfig, s.Database.Backend)
	}
	if s.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		return err
	}
	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, s.Logging.Format)
	}
	if _, err := pattern.NewMatcher(s.Import.Rules); err != nil {
		return err
	}
	return nil
}
