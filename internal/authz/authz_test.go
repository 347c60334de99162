package authz

import (
	"errors"
	"testing"

	"health-tracker/internal/domain"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"Admin", true},
		{"ADMIN", true},
		{"aDmIn", true},
		{"", false},
		{"user", false},
		{"administrator", false},
		{" admin", false},
		{"admin ", false},
	}

	for _, tt := range tests {
		if got := IsAdmin(tt.role); got != tt.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestAuthorize(t *testing.T) {
	for _, op := range Operations {
		if err := Authorize("Admin", op); err != nil {
			t.Errorf("Expected admin to be allowed %s, got %v", op, err)
		}

		err := Authorize("user", op)
		if err == nil {
			t.Errorf("Expected user to be denied %s", op)
			continue
		}
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Expected ErrForbidden for %s, got %v", op, err)
		}
	}

	if len(Operations) != 14 {
		t.Errorf("Expected 14 gated operations, got %d", len(Operations))
	}
}
