package users

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

var nameRegex = regexp.MustCompile(`^[\p{L}\s\-'.]+$`)

// ValidateUpdateProfile checks an explicit profile edit. Both fields are
// optional, but at least one must be present.
func ValidateUpdateProfile(req *UpdateProfileRequest) error {
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Avatar) == "" {
		return fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}

	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if len(name) < 2 || len(name) > 80 || !nameRegex.MatchString(name) {
			return fmt.Errorf("%w: invalid name", apperrors.ErrValidation)
		}
	}

	if req.Avatar != "" && !strings.HasPrefix(req.Avatar, "https://") {
		return fmt.Errorf("%w: avatar must be an https URL", apperrors.ErrValidation)
	}

	return nil
}

func parseLimit(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 100 {
		return 0, false
	}
	return n, true
}
