// Package cmd implements the subtrack CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/subtrack/internal/cli"
	"github.com/theirongolddev/subtrack/internal/config"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/state"
	"github.com/theirongolddev/subtrack/internal/store"
)

var (
	flagDB    string
	flagToday string
	flagQuiet bool
)

var rootCmd = &cobra.Command{
	Use:           "subtrack",
	Short:         "Subscription tracker",
	Long:          "Track recurring subscriptions: renewal countdowns, forecasts, and spending breakdowns.",
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default from config or $"+config.EnvDB+")")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Override today's date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// session is the shared command context: config, store and the live
// collection backed by it.
type session struct {
	cfg   config.Config
	store *store.Store
	coll  *state.Container
	today model.Date
}

// openSession loads config, opens the store and seeds a container from it.
// Every dispatched command is saved before it becomes visible.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	today, err := resolveToday()
	if err != nil {
		return nil, err
	}

	path := cfg.DBPath()
	if flagDB != "" {
		path = flagDB
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	snap, err := st.Load()
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if snap.Sort == nil {
		sort := cfg.Sort
		snap.Sort = &sort
	}

	return &session{
		cfg:   cfg,
		store: st,
		coll:  state.New(snap, state.WithPersister(st)),
		today: today,
	}, nil
}

func (s *session) Close() {
	_ = s.store.Close()
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	cli.SetCurrencySymbol(cfg.General.CurrencySymbol)
	return cfg, nil
}

func resolveToday() (model.Date, error) {
	if flagToday == "" {
		return model.Today(), nil
	}
	d, err := model.ParseDate(flagToday)
	if err != nil {
		return model.Date{}, fmt.Errorf("--today: %w", err)
	}
	return d, nil
}

// progressf writes a progress line to stderr unless --quiet.
func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
