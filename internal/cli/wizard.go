package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/cli/formatter"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// twelveWeeksHuhTheme returns a custom huh theme using the Gruvbox palette.
func twelveWeeksHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func themed(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(twelveWeeksHuhTheme()).WithShowHelp(false)
}

// wizardLogin collects email and password.
func wizardLogin(c *domain.Credentials) *huh.Form {
	return themed(
		huh.NewGroup(
			requiredInput("Email", "you@example.com", &c.Email),
			passwordInput("Password", &c.Password),
		),
	)
}

// wizardRegister collects a new account. Field rules are checked again by
// the service; the form only catches blanks early.
func wizardRegister(r *domain.Registration) *huh.Form {
	return themed(
		huh.NewGroup(
			requiredInput("Name", "", &r.Name),
			requiredInput("Email", "you@example.com", &r.Email),
			passwordInput("Password", &r.Password),
			passwordInput("Confirm Password", &r.ConfirmPassword),
		),
	)
}

func wizardPasswordChange(p *domain.PasswordChange) *huh.Form {
	return themed(
		huh.NewGroup(
			passwordInput("Current Password", &p.CurrentPassword),
			passwordInput("New Password", &p.NewPassword),
			passwordInput("Confirm New Password", &p.ConfirmPassword),
		),
	)
}

// planFormValues are the string-typed fields behind the plan form.
type planFormValues struct {
	Title       string
	Description string
	Start       string
	Tags        string
}

func wizardPlan(v *planFormValues) *huh.Form {
	return themed(
		huh.NewGroup(
			requiredInput("Title", "Q3 sprint", &v.Title),
			huh.NewText().Title("Description").Value(&v.Description),
			dateInput("Start Date (YYYY-MM-DD, blank for today)", "", &v.Start),
			huh.NewInput().Title("Tags (comma separated)").Value(&v.Tags),
		),
	)
}

type goalFormValues struct {
	Title       string
	Description string
	Category    domain.Category
	Priority    domain.Priority
}

func wizardGoal(v *goalFormValues) *huh.Form {
	if v.Category == "" {
		v.Category = domain.CategoryOther
	}
	if v.Priority == "" {
		v.Priority = domain.PriorityMedium
	}
	return themed(
		huh.NewGroup(
			requiredInput("Title", "", &v.Title),
			huh.NewText().Title("Description").Value(&v.Description),
			categorySelect(&v.Category),
			prioritySelect(&v.Priority),
		),
	)
}

type taskFormValues struct {
	Title    string
	Priority domain.Priority
	Due      string
}

func wizardTask(v *taskFormValues) *huh.Form {
	if v.Priority == "" {
		v.Priority = domain.PriorityMedium
	}
	return themed(
		huh.NewGroup(
			requiredInput("Title", "", &v.Title),
			prioritySelect(&v.Priority),
			dateInput("Due Date (YYYY-MM-DD, blank for none)", "", &v.Due),
		),
	)
}

// wizardSelectPlan creates a huh form to pick one of the given plans.
func wizardSelectPlan(plans []domain.Plan, result *string) *huh.Form {
	if len(plans) == 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(plans))
	for _, p := range plans {
		label := fmt.Sprintf("%s  %s (%s)", p.DisplayID(), p.Title, p.Status)
		options = append(options, huh.NewOption(label, p.ID))
	}
	return themed(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which Plan?").
				Options(options...).
				Value(result),
		),
	)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return themed(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	)
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := parseDate(s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
