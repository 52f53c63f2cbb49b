package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WizardAnswers holds the values collected by the setup form.
type WizardAnswers struct {
	API          string
	TreeFile     string
	SidebarWidth string
	RateLimit    string
	Save         bool
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form, switching to accessible mode without a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard asks for the content source and UI settings, applies them to
// cfg and writes the result to path when the user confirms.
func RunWizard(cfg *Config, path string, out io.Writer) error {
	answers := WizardAnswers{
		API:          cfg.API,
		TreeFile:     cfg.TreeFile,
		SidebarWidth: strconv.Itoa(cfg.UI.SidebarWidth),
		RateLimit:    strconv.FormatFloat(cfg.Network.RateLimit, 'f', -1, 64),
		Save:         true,
	}

	fmt.Fprintln(out, "sitenav setup")
	fmt.Fprintln(out, "─────────────")

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Content API URL").
				Description("Serves /resources/tree and /resources/{id}").
				Value(&answers.API).
				Validate(ValidateAPIURL),
			huh.NewInput().
				Title("Local tree file (optional)").
				Description("Used instead of the API tree when set").
				Value(&answers.TreeFile),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sidebar width").
				Value(&answers.SidebarWidth).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Requests per second (0 = unlimited)").
				Value(&answers.RateLimit).
				Validate(validateRate),
			huh.NewConfirm().
				Title("Save to " + path + "?").
				Value(&answers.Save),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if err := answers.Apply(cfg); err != nil {
		return err
	}
	if !answers.Save {
		fmt.Fprintln(out, "Not saved.")
		return nil
	}
	if err := SaveTo(*cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

// Apply copies validated answers into cfg.
func (a WizardAnswers) Apply(cfg *Config) error {
	if err := ValidateAPIURL(a.API); err != nil {
		return err
	}
	cfg.API = strings.TrimRight(strings.TrimSpace(a.API), "/")
	cfg.TreeFile = expandHome(strings.TrimSpace(a.TreeFile))

	if strings.TrimSpace(a.SidebarWidth) != "" {
		if err := validatePositiveInt(a.SidebarWidth); err != nil {
			return err
		}
		cfg.UI.SidebarWidth, _ = strconv.Atoi(strings.TrimSpace(a.SidebarWidth))
	}
	if strings.TrimSpace(a.RateLimit) != "" {
		if err := validateRate(a.RateLimit); err != nil {
			return err
		}
		cfg.Network.RateLimit, _ = strconv.ParseFloat(strings.TrimSpace(a.RateLimit), 64)
	}
	return nil
}

// ValidateAPIURL accepts absolute http(s) URLs.
func ValidateAPIURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive whole number")
	}
	return nil
}

func validateRate(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return fmt.Errorf("enter a number of at least 0")
	}
	return nil
}
