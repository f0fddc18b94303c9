package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Environment variables holding secrets. They are never read from the yaml file.
const (
	EnvDatabaseURL          = "DATABASE_URL"
	EnvProvisioningKey      = "PROVISIONING_SIGNING_KEY"
	EnvMediaAccessKeyID     = "MEDIA_ACCESS_KEY_ID"
	EnvMediaSecretAccessKey = "MEDIA_SECRET_ACCESS_KEY"
)

const (
	DefaultUpsertBatchSize = 500
	DefaultDeleteBatchSize = 40
	DefaultPreviewRows     = 15
	DefaultUpcomingDays    = 7
	DefaultMaxUploadBytes  = 10 * 1024 * 1024
	DefaultTimezone        = "America/Santiago"
)

// SheetsConfig configures the Google Sheets client
type SheetsConfig struct {
	CredentialsFile  string `yaml:"credentialsFile"`
	ShiftCodeSheetID string `yaml:"shiftCodeSheetID,omitempty"`
	ShiftCodeTab     string `yaml:"shiftCodeTab,omitempty" validate:"required_with=ShiftCodeSheetID"`
}

// RosterConfig tunes roster imports and staff views
type RosterConfig struct {
	UpsertBatchSize int    `yaml:"upsertBatchSize,omitempty" validate:"min=1,max=5000"`
	DeleteBatchSize int    `yaml:"deleteBatchSize,omitempty" validate:"min=1,max=1000"`
	PreviewRows     int    `yaml:"previewRows,omitempty" validate:"min=1"`
	UpcomingDays    int    `yaml:"upcomingDays,omitempty" validate:"min=1,max=62"`
	UpcomingRule    string `yaml:"upcomingRule,omitempty"`
}

// MediaConfig configures the S3-compatible attachment bucket
type MediaConfig struct {
	Bucket          string `yaml:"bucket,omitempty"`
	Region          string `yaml:"region,omitempty" validate:"required_with=Bucket"`
	Endpoint        string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
	PublicBaseURL   string `yaml:"publicBaseURL,omitempty" validate:"omitempty,url"`
	MaxUploadBytes  int64  `yaml:"maxUploadBytes,omitempty" validate:"min=1"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// ProvisioningConfig configures the account provisioning function
type ProvisioningConfig struct {
	URL        string `yaml:"url,omitempty" validate:"omitempty,url"`
	Issuer     string `yaml:"issuer,omitempty"`
	SigningKey string `yaml:"-" validate:"required_with=URL"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL  string             `yaml:"-" validate:"required"`
	Timezone     string             `yaml:"timezone,omitempty"`
	Sheets       SheetsConfig       `yaml:"sheets"`
	Roster       RosterConfig       `yaml:"roster"`
	Media        MediaConfig        `yaml:"media"`
	Provisioning ProvisioningConfig `yaml:"provisioning"`
}

// Location returns the timezone roster dates are interpreted in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration from intranet_config.<env>.yaml.
// It looks for the config file in the current directory first, then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(fmt.Sprintf("intranet_config.%s.yaml", env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Secrets are taken from the environment, after loading a .env file if present.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	_ = godotenv.Load()
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)
	cfg.Provisioning.SigningKey = os.Getenv(EnvProvisioningKey)
	cfg.Media.AccessKeyID = os.Getenv(EnvMediaAccessKeyID)
	cfg.Media.SecretAccessKey = os.Getenv(EnvMediaSecretAccessKey)
}

func applyDefaults(cfg *Config) {
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.Roster.UpsertBatchSize == 0 {
		cfg.Roster.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if cfg.Roster.DeleteBatchSize == 0 {
		cfg.Roster.DeleteBatchSize = DefaultDeleteBatchSize
	}
	if cfg.Roster.PreviewRows == 0 {
		cfg.Roster.PreviewRows = DefaultPreviewRows
	}
	if cfg.Roster.UpcomingDays == 0 {
		cfg.Roster.UpcomingDays = DefaultUpcomingDays
	}
	if cfg.Media.MaxUploadBytes == 0 {
		cfg.Media.MaxUploadBytes = DefaultMaxUploadBytes
	}
}

// Validate validates the configuration struct, the timezone and the rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if cfg.Roster.UpcomingRule != "" {
		if _, err := rrule.StrToRRule(cfg.Roster.UpcomingRule); err != nil {
			return fmt.Errorf("invalid rrule in roster.upcomingRule: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the config file in the current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
