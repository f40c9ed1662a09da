package validate

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"a@b.com",
		"user@example.com",
		"first.last+tag@sub.example.co.uk",
	}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"@example.com",
		"user@",
		"user@domain",
		"user name@example.com",
		"user@exa mple.com",
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
	if got := NormalizeEmail("   "); got != "" {
		t.Errorf("NormalizeEmail of spaces = %q, want empty", got)
	}
}
