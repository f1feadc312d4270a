package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/example/buildgraph/internal/core/correlation"
)

func TestActiveRules_Defaults(t *testing.T) {
	s := DefaultSettings()

	got := s.ActiveRules("any-tenant")
	want := []correlation.RuleName{
		correlation.RuleIdentity,
		correlation.RuleNameQualifier,
		correlation.RuleHash,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected default active rules %v, got %v", want, got)
	}
}

func TestActiveRules_TenantAllowList(t *testing.T) {
	s := &Settings{
		Rules: map[string]RuleSetting{
			string(correlation.RuleHash): {
				EnabledByDefault:  false,
				EnabledForTenants: []string{"acme"},
			},
		},
	}

	if got := s.ActiveRules("acme"); len(got) != 1 || got[0] != correlation.RuleHash {
		t.Errorf("expected hash rule active for allow-listed tenant, got %v", got)
	}
	if got := s.ActiveRules("globex"); len(got) != 0 {
		t.Errorf("expected no active rules for other tenants, got %v", got)
	}
}

func TestActiveRules_EmptySettings(t *testing.T) {
	s := &Settings{}
	if got := s.ActiveRules("acme"); len(got) != 0 {
		t.Errorf("expected no active rules when no rules configured, got %v", got)
	}
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if !reflect.DeepEqual(s, DefaultSettings()) {
		t.Errorf("expected defaults for missing file, got %+v", s)
	}
}

func TestLoadSettings_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	in := &Settings{
		Rules: map[string]RuleSetting{
			string(correlation.RuleIdentity): {EnabledByDefault: true},
			string(correlation.RuleNameQualifierLocation): {
				EnabledForTenants: []string{"acme", "globex"},
			},
		},
		BatchPageSize: 500,
	}
	if err := SaveSettings(path, in); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	out, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("expected %+v, got %+v", in, out)
	}
	if out.PageSize() != 500 {
		t.Errorf("expected page size 500, got %d", out.PageSize())
	}
}

func TestLoadSettings_UnknownRuleRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := []byte("rules:\n  nmae-qualifier:\n    enabled_by_default: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Errorf("expected error for unknown rule name")
	}
}

func TestPageSize_Default(t *testing.T) {
	s := DefaultSettings()
	if s.PageSize() != DefaultBatchPageSize {
		t.Errorf("expected default page size %d, got %d", DefaultBatchPageSize, s.PageSize())
	}
}
