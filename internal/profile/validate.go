package profile

import (
	"fmt"
	"unicode/utf8"
)

// FieldError names a single violated constraint.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// ValidationOutcome is the transient result of validating a profile. Score is
// the fraction of checked constraints that passed.
type ValidationOutcome struct {
	Valid  bool
	Errors []FieldError
	Score  float64
}

// Validate checks the profile against the given limits. It never mutates the
// profile; callers decide whether a failed outcome blocks a save.
func (p *Profile) Validate(limits Limits) ValidationOutcome {
	if limits.MaxNameLength <= 0 {
		limits.MaxNameLength = DefaultLimits().MaxNameLength
	}
	if limits.MaxGoals <= 0 {
		limits.MaxGoals = DefaultLimits().MaxGoals
	}
	if limits.MaxTopics <= 0 {
		limits.MaxTopics = DefaultLimits().MaxTopics
	}

	var errs []FieldError
	checks := 3

	// Rune count, not bytes: accented names are not shorter allowances.
	if utf8.RuneCountInString(p.DisplayName) > limits.MaxNameLength {
		errs = append(errs, FieldError{
			Field:   "display_name",
			Message: fmt.Sprintf("longer than %d characters", limits.MaxNameLength),
		})
	}
	if len(p.Goals) > limits.MaxGoals {
		errs = append(errs, FieldError{
			Field:   "goals",
			Message: fmt.Sprintf("more than %d goals selected", limits.MaxGoals),
		})
	}
	if len(p.Topics) > limits.MaxTopics {
		errs = append(errs, FieldError{
			Field:   "topics",
			Message: fmt.Sprintf("more than %d topics selected", limits.MaxTopics),
		})
	}

	return ValidationOutcome{
		Valid:  len(errs) == 0,
		Errors: errs,
		Score:  float64(checks-len(errs)) / float64(checks),
	}
}
