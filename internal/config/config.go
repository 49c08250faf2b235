// Package config loads a process's YAML configuration file, grounded on
// slowdrip-network-slowdrip-miner's internal/config package: read, parse,
// expand ${VAR}/${VAR:default} environment references in string fields,
// apply defaults. No validation is performed.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration for YAML "2s"/"500ms" string values.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string (e.g. \"2s\"): %w", err)
	}
	s = expandEnvDefault(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = dd
	return nil
}

// Config is shared across cmd/relay, cmd/participant and cmd/coordinator;
// each binary only reads the sections relevant to it.
type Config struct {
	LogLevel string `yaml:"logLevel"`

	Relay struct {
		Listen            string   `yaml:"listen"`
		RoomTTL           Duration `yaml:"roomTTL"`
		HeartbeatInterval Duration `yaml:"heartbeatInterval"`
	} `yaml:"relay"`

	Participant struct {
		Self          string `yaml:"self"` // this node's party.ID
		Listen        string `yaml:"listen"`
		RelayEndpoint string `yaml:"relayEndpoint"`
		Vault         struct {
			Kind  string `yaml:"kind"` // mem | kms
			KeyID string `yaml:"kmsKeyId"`
		} `yaml:"vault"`
		IdentitySealedID string   `yaml:"identitySealedId"`
		RoundTimeout     Duration `yaml:"roundTimeout"`
	} `yaml:"participant"`

	Coordinator struct {
		Listen      string   `yaml:"listen"`
		Threshold   int      `yaml:"threshold"`
		Quorum      []string `yaml:"quorum"` // online party.IDs; endpoints not listed here are cold storage
		Participant map[string]string `yaml:"participantEndpoints"` // party.ID -> RPC base URL
		CeremonyTTL Duration `yaml:"ceremonyTTL"`
	} `yaml:"coordinator"`

	Metrics struct {
		Enable bool   `yaml:"enable"`
		Path   string `yaml:"path"`
	} `yaml:"metrics"`
}

// Load reads path, parses YAML, env-expands string fields and applies
// defaults. It does not validate the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "config: parse yaml")
	}

	cfg.LogLevel = expandEnvDefault(cfg.LogLevel)
	cfg.Relay.Listen = expandEnvDefault(cfg.Relay.Listen)
	cfg.Participant.Self = expandEnvDefault(cfg.Participant.Self)
	cfg.Participant.Listen = expandEnvDefault(cfg.Participant.Listen)
	cfg.Participant.RelayEndpoint = expandEnvDefault(cfg.Participant.RelayEndpoint)
	cfg.Participant.IdentitySealedID = expandEnvDefault(cfg.Participant.IdentitySealedID)
	cfg.Participant.Vault.Kind = expandEnvDefault(cfg.Participant.Vault.Kind)
	cfg.Participant.Vault.KeyID = expandEnvDefault(cfg.Participant.Vault.KeyID)
	cfg.Coordinator.Listen = expandEnvDefault(cfg.Coordinator.Listen)
	for i, id := range cfg.Coordinator.Quorum {
		cfg.Coordinator.Quorum[i] = expandEnvDefault(id)
	}
	for id, endpoint := range cfg.Coordinator.Participant {
		cfg.Coordinator.Participant[id] = expandEnvDefault(endpoint)
	}
	cfg.Metrics.Path = expandEnvDefault(cfg.Metrics.Path)

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(c *Config) {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Relay.Listen == "" {
		c.Relay.Listen = ":8080"
	}
	if c.Relay.RoomTTL.Duration == 0 {
		c.Relay.RoomTTL = Duration{10 * time.Minute}
	}
	if c.Relay.HeartbeatInterval.Duration == 0 {
		c.Relay.HeartbeatInterval = Duration{15 * time.Second}
	}
	if c.Participant.Listen == "" {
		c.Participant.Listen = ":8081"
	}
	if c.Participant.Vault.Kind == "" {
		c.Participant.Vault.Kind = "mem"
	}
	if c.Participant.RoundTimeout.Duration == 0 {
		c.Participant.RoundTimeout = Duration{30 * time.Second}
	}
	if c.Coordinator.Listen == "" {
		c.Coordinator.Listen = ":8082"
	}
	if c.Coordinator.CeremonyTTL.Duration == 0 {
		c.Coordinator.CeremonyTTL = Duration{time.Minute}
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

var envRe = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvDefault replaces ${VAR} with os.Getenv("VAR") and
// ${VAR:default} with the env value, or default if VAR is unset.
func expandEnvDefault(s string) string {
	if s == "" {
		return s
	}
	return envRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := envRe.FindStringSubmatch(m)
		if len(parts) != 3 {
			return m
		}
		if val, ok := os.LookupEnv(parts[1]); ok {
			return val
		}
		return parts[2]
	})
}
