package cmd

import (
	"fmt"
	"strings"
	"time"

	"lockedflow/internal/storage"
	"lockedflow/internal/ui/display"
	"lockedflow/internal/ui/preferences"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "LockedFlow"

var (
	configDir    string
	outputFormat string
)

// rootCmd runs the timer when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "lockedflow",
	Short: "Desktop stopwatch with an optional countdown target",
	Long: `lockedflow is a stopwatch that tracks focused work time, optionally against a
target duration. Without a subcommand it opens the timer window.`,
	SilenceUsage: true,
	RunE:         runApp,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
}

// initConfig binds environment overrides.
func initConfig() {
	viper.SetEnvPrefix("LOCKEDFLOW")
	viper.AutomaticEnv()

	viper.BindEnv("target", "LOCKEDFLOW_TARGET")
	viper.BindEnv("status_addr", "LOCKEDFLOW_STATUS_ADDR")
	viper.BindEnv("tick", "LOCKEDFLOW_TICK")
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}

func openStore() (*storage.Store, error) {
	if configDir != "" {
		return storage.NewStoreAt(configDir), nil
	}
	return storage.NewStore(appName)
}

// applyOverrides layers environment and flag values from v over settings
// loaded from disk. A target of "0" or "off" disables the target.
func applyOverrides(settings preferences.Settings, v *viper.Viper) (preferences.Settings, error) {
	if raw := strings.TrimSpace(v.GetString("target")); raw != "" {
		if strings.EqualFold(raw, "off") {
			settings.TargetEnabled = false
		} else {
			target, ok := display.ParseTarget(raw)
			if !ok {
				return settings, fmt.Errorf("invalid target %q", raw)
			}
			settings.TargetEnabled = target > 0
			if target > 0 {
				settings.TargetDuration = target
			}
		}
	}

	if v.IsSet("status_addr") {
		settings.StatusAddress = strings.TrimSpace(v.GetString("status_addr"))
	}

	if raw := strings.TrimSpace(v.GetString("tick")); raw != "" {
		tick, err := time.ParseDuration(raw)
		if err != nil || tick <= 0 {
			return settings, fmt.Errorf("invalid tick interval %q", raw)
		}
		settings.TickInterval = tick
	}

	return settings, nil
}
