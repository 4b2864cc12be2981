package rsakit

import (
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Trust store names accepted in Config.TrustStore.
const (
	TrustStoreSystem  = "system"
	TrustStoreMozilla = "mozilla"
	TrustStoreCustom  = "custom"
)

// Tag strategies accepted in Config.TagStrategy.
const (
	// TagStrategyContent derives the keychain tag from a hash of the key
	// bytes and role, so the same key always lands on the same item.
	TagStrategyContent = "content"
	// TagStrategyRandom gives every registration its own random tag.
	TagStrategyRandom = "random"
)

// LogConfig configures the logger a Kit builds when Config.Logger is nil.
type LogConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// Config configures a Kit.
type Config struct {
	// AppTag prefixes every keychain tag.
	AppTag string `yaml:"appTag" validate:"required"`
	// Keychain selects the key item store backend: "memory" or "sqlite".
	Keychain string `yaml:"keychain" validate:"oneof=memory sqlite"`
	// TagStrategy is "content" or "random".
	TagStrategy string `yaml:"tagStrategy" validate:"oneof=content random"`
	// RetainKeys leaves registered items in the keychain after a key has
	// been materialized. By default they are removed immediately.
	RetainKeys bool `yaml:"retainKeys"`
	// TrustStore selects the roots certificate files are evaluated against:
	// "system", "mozilla" or "custom".
	TrustStore string `yaml:"trustStore" validate:"oneof=system mozilla custom"`
	// CustomRootsFile is a PEM, DER or PKCS#7 file of roots for the
	// "custom" trust store.
	CustomRootsFile string `yaml:"customRootsFile"`
	// PKCS12Password is the passphrase tried for PKCS#12 and JKS files when
	// the key source does not carry one.
	PKCS12Password string `yaml:"pkcs12Password"`

	Log LogConfig `yaml:"log"`

	// CustomRoots are added to the "custom" trust store.
	CustomRoots []*x509.Certificate `yaml:"-" validate:"-"`
	// Logger overrides Log when set.
	Logger *slog.Logger `yaml:"-" validate:"-"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		AppTag:      "rsakit",
		Keychain:    "memory",
		TagStrategy: TagStrategyContent,
		TrustStore:  TrustStoreSystem,
	}
}

// Validate checks field values and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	if c.TrustStore == TrustStoreCustom && c.CustomRootsFile == "" && len(c.CustomRoots) == 0 {
		return errors.New("validating config: custom trust store needs customRootsFile or CustomRoots")
	}
	return nil
}

// LoadConfig reads a YAML config file over DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
