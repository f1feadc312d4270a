package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/buildgraph/internal/config"
	"github.com/example/buildgraph/internal/core/correlation"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage correlation rule settings",
	Long:  "Show and change which correlation rules are enabled, globally or per tenant",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current rule settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, settings, err := loadSettingsFile()
		if err != nil {
			return err
		}

		fmt.Printf("Settings file: %s\n\n", path)
		for _, name := range correlation.AllRuleNames() {
			setting, ok := settings.Rules[string(name)]
			if !ok {
				fmt.Printf("%-28s %s\n", name, color.New(color.FgRed).Sprint("disabled everywhere"))
				continue
			}
			if setting.EnabledByDefault {
				fmt.Printf("%-28s %s\n", name, color.New(color.FgGreen).Sprint("enabled by default"))
			} else if len(setting.EnabledForTenants) > 0 {
				fmt.Printf("%-28s enabled for: %v\n", name, setting.EnabledForTenants)
			} else {
				fmt.Printf("%-28s %s\n", name, color.New(color.FgYellow).Sprint("disabled"))
			}
		}
		fmt.Printf("\nBatch page size: %d\n", settings.PageSize())
		return nil
	},
}

var settingsEnableCmd = &cobra.Command{
	Use:   "enable [rule]",
	Short: "Enable a correlation rule",
	Long:  "Enable a rule by default, or for a single tenant with --tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := correlation.RuleName(args[0])
		if !correlation.ValidRuleName(name) {
			return fmt.Errorf("unknown correlation rule %q", args[0])
		}
		tenant, _ := cmd.Flags().GetString("tenant")

		path, settings, err := loadSettingsFile()
		if err != nil {
			return err
		}
		if settings.Rules == nil {
			settings.Rules = map[string]config.RuleSetting{}
		}

		setting := settings.Rules[string(name)]
		if tenant == "" {
			setting.EnabledByDefault = true
		} else {
			found := false
			for _, t := range setting.EnabledForTenants {
				if t == tenant {
					found = true
					break
				}
			}
			if !found {
				setting.EnabledForTenants = append(setting.EnabledForTenants, tenant)
			}
		}
		settings.Rules[string(name)] = setting

		if err := config.SaveSettings(path, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		if tenant == "" {
			fmt.Printf("✓ Rule %s enabled by default\n", name)
		} else {
			fmt.Printf("✓ Rule %s enabled for tenant %s\n", name, tenant)
		}
		return nil
	},
}

var settingsDisableCmd = &cobra.Command{
	Use:   "disable [rule]",
	Short: "Disable a correlation rule",
	Long: `Disable a rule by default, or withdraw a single tenant's enablement
with --tenant. A tenant cannot be disabled while the rule stays enabled by
default; disable the default first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := correlation.RuleName(args[0])
		if !correlation.ValidRuleName(name) {
			return fmt.Errorf("unknown correlation rule %q", args[0])
		}
		tenant, _ := cmd.Flags().GetString("tenant")

		path, settings, err := loadSettingsFile()
		if err != nil {
			return err
		}

		setting, ok := settings.Rules[string(name)]
		if !ok {
			fmt.Printf("Rule %s is already disabled everywhere\n", name)
			return nil
		}

		if tenant == "" {
			setting.EnabledByDefault = false
		} else {
			if setting.EnabledByDefault {
				return fmt.Errorf("rule %s is enabled by default; disable the default first", name)
			}
			kept := setting.EnabledForTenants[:0]
			for _, t := range setting.EnabledForTenants {
				if t != tenant {
					kept = append(kept, t)
				}
			}
			setting.EnabledForTenants = kept
		}
		settings.Rules[string(name)] = setting

		if err := config.SaveSettings(path, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		if tenant == "" {
			fmt.Printf("✓ Rule %s disabled by default\n", name)
		} else {
			fmt.Printf("✓ Rule %s disabled for tenant %s\n", name, tenant)
		}
		return nil
	},
}

func loadSettingsFile() (string, *config.Settings, error) {
	path, err := config.DefaultSettingsPath()
	if err != nil {
		return "", nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return path, settings, nil
}

func init() {
	settingsEnableCmd.Flags().String("tenant", "", "Enable only for this tenant")
	settingsDisableCmd.Flags().String("tenant", "", "Disable only for this tenant")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEnableCmd)
	settingsCmd.AddCommand(settingsDisableCmd)
}

// SettingsCmd returns the settings command
func SettingsCmd() *cobra.Command {
	return settingsCmd
}
