// Package validation runs declarative per-field rule tables against
// decoded JSON request bodies. The runner collects every violation so a
// client can surface all problems in one round trip.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FieldError describes a single violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Check inspects a field value. It receives the whole body so checks can
// compare across fields. An empty return means the check passed.
type Check func(value any, body map[string]any) string

// Rule binds a field name to its checks. Optional fields skip their
// checks when absent or empty.
type Rule struct {
	Field    string
	Optional bool
	Checks   []Check
}

// Run evaluates every rule against the body and returns all violations.
func Run(rules []Rule, body map[string]any) []FieldError {
	var violations []FieldError
	for _, rule := range rules {
		value, present := body[rule.Field]
		if rule.Optional && (!present || value == nil || value == "") {
			continue
		}
		for _, check := range rule.Checks {
			if msg := check(value, body); msg != "" {
				violations = append(violations, FieldError{Field: rule.Field, Message: msg})
			}
		}
	}
	return violations
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

// Required fails on missing, non-string, or blank values.
func Required(message string) Check {
	return func(value any, _ map[string]any) string {
		s, ok := asString(value)
		if !ok || strings.TrimSpace(s) == "" {
			return message
		}
		return ""
	}
}

// MinLength fails when the trimmed value is shorter than n characters.
func MinLength(n int, message string) Check {
	return func(value any, _ map[string]any) string {
		s, _ := asString(value)
		if len([]rune(strings.TrimSpace(s))) < n {
			return message
		}
		return ""
	}
}

// Matches fails when the value does not match the pattern.
func Matches(pattern *regexp.Regexp, message string) Check {
	return func(value any, _ map[string]any) string {
		s, _ := asString(value)
		if !pattern.MatchString(s) {
			return message
		}
		return ""
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail fails on anything that does not look like an email address.
func IsEmail(message string) Check {
	return Matches(emailPattern, message)
}

// IsISODate fails when the value is not an ISO-8601 date.
func IsISODate(message string) Check {
	return func(value any, _ map[string]any) string {
		s, _ := asString(value)
		if _, err := parseISODate(s); err != nil {
			return message
		}
		return ""
	}
}

// MinAge fails when the birth date puts the applicant under the given
// number of years.
func MinAge(years int, message string) Check {
	return func(value any, _ map[string]any) string {
		s, _ := asString(value)
		birth, err := parseISODate(s)
		if err != nil {
			return "" // IsISODate reports the format problem
		}
		if age(birth, time.Now()) < years {
			return message
		}
		return ""
	}
}

// FutureDate fails unless the date is strictly after today.
func FutureDate(message string) Check {
	return func(value any, _ map[string]any) string {
		s, _ := asString(value)
		date, err := parseISODate(s)
		if err != nil {
			return ""
		}
		y, m, d := time.Now().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
		if !date.After(today) {
			return message
		}
		return ""
	}
}

// EqualsField fails unless the value matches another field in the body.
func EqualsField(other, message string) Check {
	return func(value any, body map[string]any) string {
		s, _ := asString(value)
		o, _ := asString(body[other])
		if s != o {
			return message
		}
		return ""
	}
}

// IsBool fails when the value is present but not a JSON boolean.
func IsBool(message string) Check {
	return func(value any, _ map[string]any) string {
		if _, ok := value.(bool); !ok {
			return message
		}
		return ""
	}
}

func parseISODate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 date: %q", s)
}

func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
