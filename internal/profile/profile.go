// Package profile validates the profile form and builds the partial update
// the backend expects.
package profile

import (
	"errors"
	"strings"

	"courtbook/internal/model"
)

// ErrNothingChanged means the form matches the stored profile.
var ErrNothingChanged = errors.New("nothing to update")

// Form is what the user typed. Empty fields are left unchanged.
type Form struct {
	FirstName   string
	LastName    string
	NewPassword string
}

// FormFrom prefills a form from the current profile.
func FormFrom(p *model.Profile) Form {
	if p == nil {
		return Form{}
	}
	return Form{FirstName: p.FirstName, LastName: p.LastName}
}

// Validate returns the first problem with the form, or "".
func Validate(f Form) string {
	if strings.TrimSpace(f.FirstName) != "" && len(f.FirstName) < 2 {
		return "First name too short"
	}
	if strings.TrimSpace(f.LastName) != "" && len(f.LastName) < 2 {
		return "Last name too short"
	}
	if strings.TrimSpace(f.NewPassword) != "" && len(f.NewPassword) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

// Diff returns only the fields that differ from current. A non-empty
// password is always included.
func Diff(current *model.Profile, f Form) (map[string]string, error) {
	changes := make(map[string]string)
	if current != nil {
		if v := strings.TrimSpace(f.FirstName); v != "" && v != current.FirstName {
			changes["firstName"] = v
		}
		if v := strings.TrimSpace(f.LastName); v != "" && v != current.LastName {
			changes["lastName"] = v
		}
	}
	if v := strings.TrimSpace(f.NewPassword); v != "" {
		changes["newPassword"] = v
	}
	if len(changes) == 0 {
		return nil, ErrNothingChanged
	}
	return changes, nil
}
