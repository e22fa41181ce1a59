package validation

import "regexp"

var (
	namePattern   = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	phonePattern  = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
	symbolPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func passwordChecks(label string) []Check {
	return []Check{
		Required(label + " is required"),
		MinLength(8, label+" must be at least 8 characters"),
		Matches(upperPattern, label+" must contain an uppercase letter"),
		Matches(digitPattern, label+" must contain a number"),
		Matches(symbolPattern, label+" must contain a symbol"),
	}
}

// RegisterRules validates new registrations.
var RegisterRules = []Rule{
	{Field: "firstName", Checks: []Check{
		Required("First name is required"),
		MinLength(2, "First name must be at least 2 characters"),
		Matches(namePattern, "First name may only contain letters"),
	}},
	{Field: "lastName", Checks: []Check{
		Required("Last name is required"),
		MinLength(2, "Last name must be at least 2 characters"),
		Matches(namePattern, "Last name may only contain letters"),
	}},
	{Field: "email", Checks: []Check{
		Required("Email is required"),
		IsEmail("Invalid email format"),
	}},
	{Field: "password", Checks: passwordChecks("Password")},
	{Field: "confirmPassword", Optional: true, Checks: []Check{
		EqualsField("password", "Passwords do not match"),
	}},
	{Field: "phone", Optional: true, Checks: []Check{
		Matches(phonePattern, "Invalid phone format"),
	}},
	{Field: "country", Checks: []Check{
		Required("Country is required"),
	}},
	{Field: "birthDate", Checks: []Check{
		Required("Birth date is required"),
		IsISODate("Invalid date format"),
		MinAge(16, "You must be at least 16 years old"),
	}},
	{Field: "spanishLevel", Checks: []Check{
		Required("Spanish level is required"),
	}},
	{Field: "startDate", Checks: []Check{
		Required("Start date is required"),
		IsISODate("Invalid date format"),
		FutureDate("Start date must be in the future"),
	}},
	{Field: "newsletter", Optional: true, Checks: []Check{
		IsBool("Newsletter must be true or false"),
	}},
}

// LoginRules validates login requests.
var LoginRules = []Rule{
	{Field: "email", Checks: []Check{
		Required("Email is required"),
		IsEmail("Invalid email format"),
	}},
	{Field: "password", Checks: []Check{
		Required("Password is required"),
	}},
}

// ChangePasswordRules validates password changes.
var ChangePasswordRules = []Rule{
	{Field: "currentPassword", Checks: []Check{
		Required("Current password is required"),
	}},
	{Field: "newPassword", Checks: passwordChecks("New password")},
}

// ProfileRules validates profile updates. Everything is optional; only
// present fields are checked.
var ProfileRules = []Rule{
	{Field: "firstName", Optional: true, Checks: []Check{
		MinLength(2, "First name must be at least 2 characters"),
		Matches(namePattern, "First name may only contain letters"),
	}},
	{Field: "lastName", Optional: true, Checks: []Check{
		MinLength(2, "Last name must be at least 2 characters"),
		Matches(namePattern, "Last name may only contain letters"),
	}},
	{Field: "phone", Optional: true, Checks: []Check{
		Matches(phonePattern, "Invalid phone format"),
	}},
}
