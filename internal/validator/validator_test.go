package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("finance@sautitravels.test"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "no-at.test", "a@b", "a b@c.test"} {
		if err := ValidateEmail(bad); err != ErrInvalidEmail {
			t.Fatalf("expected invalid email for %q", bad)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	for _, good := range []string{"+254700000001", "0700 000 001", "256-700-000004"} {
		if err := ValidatePhone(good); err != nil {
			t.Fatalf("unexpected error for %q: %v", good, err)
		}
	}
	for _, bad := range []string{"", "12345", "+2547abc0001"} {
		if err := ValidatePhone(bad); err != ErrInvalidPhone {
			t.Fatalf("expected invalid phone for %q", bad)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Jambo Brokers"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateName(" a "); err != ErrInvalidName {
		t.Fatalf("expected invalid name")
	}
}

func TestValidatePolicyNumber(t *testing.T) {
	if err := ValidatePolicyNumber("POL-2024-1000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidatePolicyNumber("1000"); err != ErrInvalidPolicy {
		t.Fatalf("expected invalid policy")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err != ErrInvalidPassword {
		t.Fatalf("expected invalid password")
	}
	if err := ValidatePassword("long-enough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
