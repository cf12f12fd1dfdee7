package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the labels shown to users.
var FieldLabels = map[string]string{
	"Email":               "Email",
	"Password":            "Password",
	"DisplayName":         "Display name",
	"CompanyName":         "Company name",
	"FirstName":           "First name",
	"LastName":            "Last name",
	"Phone":               "Phone number",
	"Prefecture":          "Prefecture",
	"DesiredSalary":       "Desired salary",
	"BillingContactEmail": "Billing contact email",
	"BillingContactPhone": "Billing contact phone",
	"Title":               "Title",
	"SelfPR":              "Self PR",
	"DesiredJob":          "Desired job",
	"DesiredIndustries":   "Desired industries",
	"DesiredLocations":    "Desired locations",
	"PeriodFrom":          "Period from",
	"PeriodTo":            "Period to",
	"SeekerID":            "Seeker",
	"JobPostingID":        "Job posting",
	"CapPercent":          "Cap percent",
	"CapAmountLimit":      "Cap amount limit",
	"StartTime":           "Start time",
	"EndTime":             "End time",
	"StartOffset":         "Start offset",
	"EndOffset":           "End offset",
	"ReceiverID":          "Receiver",
	"ExternalRef":         "External reference",
}

// FormatValidationErrors converts validator errors to user-facing messages.
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s is out of range (%s %s)", label, e.Tag(), param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", label)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and . ' - /", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 digits with an optional leading +", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	case "prefecture":
		return fmt.Sprintf("%s must be a Japanese prefecture", label)
	case "cap_percent":
		return fmt.Sprintf("%s must be 20, 22 or 25", label)
	case "gtfield", "gtefield":
		return fmt.Sprintf("%s must be after %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
