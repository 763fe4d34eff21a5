// Package config loads and validates the agent's TOML configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/snmplite/internal/mib"
	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/value"
)

const (
	DefaultListenAddr  = ":1161"
	DefaultIdleTimeout = 10 * time.Second
)

// Duration wraps time.Duration so TOML can carry values like "10s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// AgentConfig configures one agent process.
type AgentConfig struct {
	ListenAddr  string        `toml:"listen_addr"`
	MetricsAddr string        `toml:"metrics_addr"`
	IdleTimeout Duration      `toml:"idle_timeout"`
	Entries     []EntryConfig `toml:"entries"`
}

// EntryConfig declares one extra store entry, or overrides a seeded one.
type EntryConfig struct {
	OID    string `toml:"oid"`
	Type   string `toml:"type"`
	Value  string `toml:"value"`
	Access string `toml:"access"`
}

// DefaultAgentConfig returns the configuration used when no file is given.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		ListenAddr:  DefaultListenAddr,
		IdleTimeout: Duration(DefaultIdleTimeout),
	}
}

// LoadAgentConfig reads and validates a TOML config file, filling defaults
// for absent fields.
func LoadAgentConfig(path string) (AgentConfig, error) {
	var cfg AgentConfig
	if err := loadToml(path, &cfg); err != nil {
		return AgentConfig{}, err
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = Duration(DefaultIdleTimeout)
	}
	if err := ValidateAgentConfig(cfg); err != nil {
		return AgentConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateAgentConfig(cfg AgentConfig) error {
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("agent config missing listen_addr")
	}
	if cfg.IdleTimeout.Std() <= 0 {
		return fmt.Errorf("agent config idle_timeout must be positive")
	}
	for i, entry := range cfg.Entries {
		if _, _, err := buildEntry(entry); err != nil {
			return fmt.Errorf("entries[%d] invalid: %w", i, err)
		}
	}
	return nil
}

// BuildEntries merges the configured extra entries over the seed set.
func BuildEntries(cfg AgentConfig) (map[string]mib.Entry, error) {
	entries := mib.DefaultEntries()
	for i, entryCfg := range cfg.Entries {
		key, entry, err := buildEntry(entryCfg)
		if err != nil {
			return nil, fmt.Errorf("entries[%d] invalid: %w", i, err)
		}
		entries[key] = entry
	}
	return entries, nil
}

func buildEntry(cfg EntryConfig) (string, mib.Entry, error) {
	if strings.TrimSpace(cfg.OID) == "" {
		return "", mib.Entry{}, fmt.Errorf("oid is required")
	}
	if _, err := oid.Parse(cfg.OID); err != nil {
		return "", mib.Entry{}, err
	}
	typ, err := value.ParseType(cfg.Type)
	if err != nil {
		return "", mib.Entry{}, err
	}
	v, err := value.ParseValue(typ, cfg.Value)
	if err != nil {
		return "", mib.Entry{}, err
	}
	access := mib.AccessReadOnly
	if strings.TrimSpace(cfg.Access) != "" {
		access, err = mib.ParseAccess(cfg.Access)
		if err != nil {
			return "", mib.Entry{}, err
		}
	}
	return cfg.OID, mib.Entry{Value: v, Access: access}, nil
}
