package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one config value, e.g. budget.monthly 120",
	Long: "Set one config value. Keys: general.db_path, general.forecast_months, " +
		"general.upcoming_days, general.locale, general.currency_symbol, sort.field, " +
		"sort.direction, budget.monthly (\"none\" clears it), appearance.theme, " +
		"server.addr, server.poll_interval.",
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.ConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:        %s\n", cfg.DBPath())
	fmt.Printf("    Forecast months: %d\n", cfg.General.ForecastMonths)
	fmt.Printf("    Upcoming days:   %d\n", cfg.General.UpcomingDays)
	fmt.Printf("    Locale:          %s\n", cfg.General.Locale)
	fmt.Printf("    Currency:        %s\n", cfg.General.CurrencySymbol)
	fmt.Println()

	fmt.Println("  [Sort]")
	fmt.Printf("    Default order: %s %s\n", cfg.Sort.Field, cfg.Sort.Direction)
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.Monthly != nil {
		fmt.Printf("    Monthly budget: %s\n", cli.FormatMoney(*cfg.Budget.Monthly))
	} else {
		fmt.Println("    Monthly budget: not set")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Poll interval: %s\n", cfg.Server.PollInterval)
	fmt.Println()

	fmt.Println("  Run `subtrack setup` to reconfigure.")
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(config.ConfigPath())
	if err != nil {
		return err
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  %s = %s\n", args[0], args[1])
	return nil
}
