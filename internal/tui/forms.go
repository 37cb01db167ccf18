package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/subtrack/internal/config"
	"github.com/theirongolddev/subtrack/internal/model"
	"github.com/theirongolddev/subtrack/internal/tui/theme"
)

// SubscriptionValues backs the add/edit subscription form. Every field is a
// string so huh inputs can bind to it directly.
type SubscriptionValues struct {
	ID         string
	Name       string
	Amount     string
	Date       string
	Recurrence string
	Tag        string
	FolderID   string
	Link       string
	Archived   bool
}

// ValuesFrom fills form values from an existing subscription.
func ValuesFrom(s model.Subscription) *SubscriptionValues {
	return &SubscriptionValues{
		ID:         s.ID,
		Name:       s.Name,
		Amount:     strconv.FormatFloat(s.Amount, 'f', -1, 64),
		Date:       s.Anchor.String(),
		Recurrence: s.Recurrence.String(),
		Tag:        s.Tag,
		FolderID:   s.FolderID,
		Link:       s.Link,
		Archived:   s.Archived,
	}
}

// Subscription parses the form values.
func (v *SubscriptionValues) Subscription() (model.Subscription, error) {
	amount, err := parseAmount(v.Amount)
	if err != nil {
		return model.Subscription{}, err
	}
	date, err := model.ParseDate(strings.TrimSpace(v.Date))
	if err != nil {
		return model.Subscription{}, err
	}
	rec, err := model.ParseRecurrence(v.Recurrence)
	if err != nil {
		return model.Subscription{}, err
	}
	s := model.Subscription{
		ID:         v.ID,
		Name:       v.Name,
		Amount:     amount,
		Anchor:     date,
		Recurrence: rec,
		Tag:        v.Tag,
		FolderID:   v.FolderID,
		Link:       v.Link,
		Archived:   v.Archived,
	}
	return s.Normalize(), nil
}

var errAmountRequired = errors.New("amount is required")

func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &model.ValidationError{Field: "amount", Err: errAmountRequired}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "amount", Value: s, Err: errors.New("not a number")}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &model.ValidationError{Field: "amount", Value: s, Err: model.ErrInvalidAmount}
	}
	if f < 0 {
		return 0, &model.ValidationError{Field: "amount", Value: s, Err: model.ErrNegativeAmount}
	}
	return f, nil
}

// NewSubscriptionForm builds the huh form used by both the dashboard and
// `subtrack add`.
func NewSubscriptionForm(v *SubscriptionValues, folders []model.Folder) *huh.Form {
	if v.Recurrence == "" {
		v.Recurrence = model.RecurMonthly.String()
	}

	recurrences := make([]huh.Option[string], 0, len(model.Recurrences))
	for _, r := range model.Recurrences {
		recurrences = append(recurrences, huh.NewOption(r.String(), r.String()))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Name").
			Value(&v.Name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Amount").
			Placeholder("15.49").
			Value(&v.Amount).
			Validate(func(s string) error {
				_, err := parseAmount(s)
				return err
			}),
		huh.NewInput().
			Title("First payment").
			Placeholder(model.DateLayout).
			Value(&v.Date).
			Validate(func(s string) error {
				_, err := model.ParseDate(strings.TrimSpace(s))
				return err
			}),
		huh.NewSelect[string]().
			Title("Repeats").
			Options(recurrences...).
			Value(&v.Recurrence),
		huh.NewInput().
			Title("Tag").
			Placeholder(model.DefaultTag).
			Value(&v.Tag),
	}

	if len(folders) > 0 {
		opts := []huh.Option[string]{huh.NewOption("Unfiled", "")}
		for _, f := range folders {
			opts = append(opts, huh.NewOption(f.Icon+" "+f.Name, f.ID))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Folder").
			Options(opts...).
			Value(&v.FolderID))
	}

	fields = append(fields, huh.NewInput().
		Title("Link").
		Placeholder("https://").
		Value(&v.Link))

	title := "New subscription"
	if v.ID != "" {
		title = "Edit subscription"
	}
	return huh.NewForm(huh.NewGroup(fields...).Title(title)).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true)
}

// SetupValues backs the first-run setup form.
type SetupValues struct {
	Currency       string
	Theme          string
	ForecastMonths int
	Budget         string
}

// SetupValuesFrom seeds the setup form from cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	v := &SetupValues{
		Currency:       cfg.General.CurrencySymbol,
		Theme:          cfg.Appearance.Theme,
		ForecastMonths: cfg.General.ForecastMonths,
	}
	if cfg.Budget.Monthly != nil {
		v.Budget = strconv.FormatFloat(*cfg.Budget.Monthly, 'f', -1, 64)
	}
	return v
}

// Apply writes the chosen values into cfg.
func (v *SetupValues) Apply(cfg *config.Config) error {
	if v.Currency != "" {
		cfg.General.CurrencySymbol = strings.TrimSpace(v.Currency)
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	if v.ForecastMonths > 0 {
		cfg.General.ForecastMonths = v.ForecastMonths
	}
	if err := cfg.Set("budget.monthly", strings.TrimSpace(v.Budget)); err != nil {
		return err
	}
	return cfg.Validate()
}

// NewSetupForm builds the first-run setup form.
func NewSetupForm(v *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}
	months := []huh.Option[int]{
		huh.NewOption("3 months", 3),
		huh.NewOption("6 months", 6),
		huh.NewOption("12 months", 12),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to subtrack").
				Description("A few preferences before the dashboard opens.\nRun `subtrack setup` anytime to change them."),
			huh.NewInput().
				Title("Currency symbol").
				Value(&v.Currency),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&v.Theme),
			huh.NewSelect[int]().
				Title("Forecast horizon").
				Options(months...).
				Value(&v.ForecastMonths),
			huh.NewInput().
				Title("Monthly budget").
				Description("Leave blank for no limit.").
				Value(&v.Budget).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || f < 0 {
						return fmt.Errorf("enter a non-negative amount")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}
