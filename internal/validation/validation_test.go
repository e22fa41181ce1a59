package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() map[string]any {
	return map[string]any{
		"firstName":    "María",
		"lastName":     "García López",
		"email":        "maria@example.com",
		"password":     "Abcd123!",
		"country":      "España",
		"birthDate":    time.Now().AddDate(-20, 0, 0).Format("2006-01-02"),
		"spanishLevel": "B1",
		"startDate":    time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"newsletter":   true,
	}
}

func TestRegisterRulesValidPayload(t *testing.T) {
	violations := Run(RegisterRules, validRegistration())
	assert.Empty(t, violations)
}

func TestRegisterRulesCollectsAllViolations(t *testing.T) {
	violations := Run(RegisterRules, map[string]any{
		"firstName": "",
		"lastName":  "X",
		"email":     "not-an-email",
		"password":  "short",
	})

	fields := make(map[string]int)
	for _, v := range violations {
		fields[v.Field]++
	}

	// Every broken field is reported, not just the first one.
	assert.NotZero(t, fields["firstName"])
	assert.NotZero(t, fields["lastName"])
	assert.NotZero(t, fields["email"])
	assert.NotZero(t, fields["password"])
	assert.NotZero(t, fields["country"])
	assert.NotZero(t, fields["birthDate"])
	assert.NotZero(t, fields["startDate"])

	// The password breaks several rules at once.
	assert.GreaterOrEqual(t, fields["password"], 3)
}

func TestRegisterRulesMinimumAge(t *testing.T) {
	body := validRegistration()
	body["birthDate"] = time.Now().AddDate(-15, 0, 0).Format("2006-01-02")

	violations := Run(RegisterRules, body)
	require.Len(t, violations, 1)
	assert.Equal(t, "birthDate", violations[0].Field)
	assert.Contains(t, violations[0].Message, "16")
}

func TestRegisterRulesStartDateMustBeFuture(t *testing.T) {
	for name, start := range map[string]string{
		"yesterday": time.Now().AddDate(0, 0, -1).Format("2006-01-02"),
		"today":     time.Now().Format("2006-01-02"),
	} {
		t.Run(name, func(t *testing.T) {
			body := validRegistration()
			body["startDate"] = start

			violations := Run(RegisterRules, body)
			require.Len(t, violations, 1)
			assert.Equal(t, "startDate", violations[0].Field)
		})
	}
}

func TestRegisterRulesConfirmPasswordMismatch(t *testing.T) {
	body := validRegistration()
	body["confirmPassword"] = "Different1!"

	violations := Run(RegisterRules, body)
	require.Len(t, violations, 1)
	assert.Equal(t, "confirmPassword", violations[0].Field)
}

func TestRegisterRulesOptionalFieldsMaySkip(t *testing.T) {
	body := validRegistration()
	// phone and newsletter absent entirely
	delete(body, "newsletter")

	violations := Run(RegisterRules, body)
	assert.Empty(t, violations)
}

func TestRegisterRulesOptionalPhoneStillChecked(t *testing.T) {
	body := validRegistration()
	body["phone"] = "abc"

	violations := Run(RegisterRules, body)
	require.Len(t, violations, 1)
	assert.Equal(t, "phone", violations[0].Field)
}

func TestLoginRules(t *testing.T) {
	assert.Empty(t, Run(LoginRules, map[string]any{
		"email":    "a@b.com",
		"password": "whatever",
	}))

	violations := Run(LoginRules, map[string]any{})
	assert.Len(t, violations, 3) // email required + format, password required
}

func TestChangePasswordRulesComplexity(t *testing.T) {
	violations := Run(ChangePasswordRules, map[string]any{
		"currentPassword": "Old123!x",
		"newPassword":     "weakpass",
	})

	require.NotEmpty(t, violations)
	for _, v := range violations {
		assert.Equal(t, "newPassword", v.Field)
	}
}

func TestProfileRulesIgnoreAbsentFields(t *testing.T) {
	assert.Empty(t, Run(ProfileRules, map[string]any{"role": "admin"}))

	violations := Run(ProfileRules, map[string]any{"firstName": "1"})
	assert.Len(t, violations, 2) // too short and not letters
}
