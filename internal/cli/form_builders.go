package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/charmbracelet/huh"
)

// dateInput returns a huh.Input for an optional date field with YYYY-MM-DD validation.
func dateInput(title, placeholder string, value *string) *huh.Input {
	if placeholder == "" {
		placeholder = "2025-06-30"
	}
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validateOptionalDate)
}

func requiredInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(title))
			}
			return nil
		})
}

func passwordInput(title string, value *string) *huh.Input {
	return requiredInput(title, "", value).EchoMode(huh.EchoModePassword)
}

func categorySelect(value *domain.Category) *huh.Select[domain.Category] {
	options := make([]huh.Option[domain.Category], 0, len(domain.Categories))
	for _, c := range domain.Categories {
		options = append(options, huh.NewOption(string(c), c))
	}
	return huh.NewSelect[domain.Category]().
		Title("Category").
		Options(options...).
		Value(value)
}

func prioritySelect(value *domain.Priority) *huh.Select[domain.Priority] {
	return huh.NewSelect[domain.Priority]().
		Title("Priority").
		Options(
			huh.NewOption("Low", domain.PriorityLow),
			huh.NewOption("Medium", domain.PriorityMedium),
			huh.NewOption("High", domain.PriorityHigh),
		).
		Value(value)
}
