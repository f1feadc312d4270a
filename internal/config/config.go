// Package config loads buildgraph configuration: per-rule correlation
// enablement and batch tuning. Settings are read once per invocation and
// treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/example/buildgraph/internal/core/correlation"
)

// DefaultBatchPageSize is the number of consolidated entries applied per
// mapping-store replace call when no override is configured.
const DefaultBatchPageSize = 10000

// RuleSetting controls one correlation rule's enablement.
// A rule is active for a tenant iff it is enabled by default or the tenant
// is in the allow-list.
type RuleSetting struct {
	EnabledByDefault  bool     `yaml:"enabled_by_default"`
	EnabledForTenants []string `yaml:"enabled_for_tenants,omitempty"`
}

// Settings is the buildgraph configuration as loaded from settings.yaml.
type Settings struct {
	// Rules maps rule name to its enablement. Rules absent from the map
	// are disabled everywhere.
	Rules map[string]RuleSetting `yaml:"rules"`
	// BatchPageSize bounds how many consolidated entries go into a single
	// replace call during batch correlation. Zero means the default.
	BatchPageSize int `yaml:"batch_page_size,omitempty"`
}

// DefaultSettings returns the settings used when no settings file exists.
// NameQualifierLocation ships disabled: enabling it alongside NameQualifier
// is harmless but redundant, so it is opt-in per tenant.
func DefaultSettings() *Settings {
	return &Settings{
		Rules: map[string]RuleSetting{
			string(correlation.RuleIdentity):              {EnabledByDefault: true},
			string(correlation.RuleNameQualifier):         {EnabledByDefault: true},
			string(correlation.RuleNameQualifierLocation): {EnabledByDefault: false},
			string(correlation.RuleHash):                  {EnabledByDefault: true},
		},
	}
}

// LoadSettings reads settings from path. A missing file is not an error:
// defaults apply. Unknown rule names in the file are rejected so typos do
// not silently disable correlation.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	for name := range s.Rules {
		if !correlation.ValidRuleName(correlation.RuleName(name)) {
			return nil, fmt.Errorf("unknown correlation rule %q in settings", name)
		}
	}

	return &s, nil
}

// SaveSettings writes settings to path, creating parent directories.
func SaveSettings(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// DefaultSettingsPath returns $BUILDGRAPH_HOME/settings.yaml or
// ~/.buildgraph/settings.yaml.
func DefaultSettingsPath() (string, error) {
	if dir := os.Getenv("BUILDGRAPH_HOME"); dir != "" {
		return filepath.Join(dir, "settings.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".buildgraph", "settings.yaml"), nil
}

// ActiveRules returns the rules active for a tenant, in stable rule order.
func (s *Settings) ActiveRules(tenant string) []correlation.RuleName {
	var active []correlation.RuleName
	for _, name := range correlation.AllRuleNames() {
		setting, ok := s.Rules[string(name)]
		if !ok {
			continue
		}
		if setting.EnabledByDefault {
			active = append(active, name)
			continue
		}
		for _, t := range setting.EnabledForTenants {
			if t == tenant {
				active = append(active, name)
				break
			}
		}
	}
	return active
}

// PageSize returns the configured batch page size, falling back to the default.
func (s *Settings) PageSize() int {
	if s.BatchPageSize > 0 {
		return s.BatchPageSize
	}
	return DefaultBatchPageSize
}
