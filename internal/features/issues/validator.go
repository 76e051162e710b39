package issues

import (
	"fmt"
	"strings"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

var validCategories = map[string]bool{
	CategoryPothole:     true,
	CategoryWaterLeak:   true,
	CategoryGarbage:     true,
	CategoryFallenTree:  true,
	CategoryStreetlight: true,
	CategoryDisaster:    true,
	CategoryOther:       true,
}

var validStatuses = map[string]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusResolved:   true,
}

var validUrgencies = map[string]bool{
	UrgencyLow:    true,
	UrgencyMedium: true,
	UrgencyHigh:   true,
}

// ValidateReport checks the required report fields: category, description,
// location, and coordinates.
func ValidateReport(req *ReportIssueRequest) error {
	if !validCategories[req.Category] {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Location) == "" {
		return fmt.Errorf("%w: location is required", apperrors.ErrValidation)
	}
	if req.Coordinates == nil {
		return fmt.Errorf("%w: coordinates are required", apperrors.ErrValidation)
	}
	if req.Coordinates.Lat < -90 || req.Coordinates.Lat > 90 ||
		req.Coordinates.Lng < -180 || req.Coordinates.Lng > 180 {
		return fmt.Errorf("%w: coordinates out of range", apperrors.ErrValidation)
	}
	if req.Urgency != "" && !validUrgencies[req.Urgency] {
		return fmt.Errorf("%w: unknown urgency %q", apperrors.ErrValidation, req.Urgency)
	}
	return nil
}

func ValidateStatus(status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}
	return nil
}

func ValidateComment(req *AddCommentRequest) error {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return fmt.Errorf("%w: comment content is required", apperrors.ErrValidation)
	}
	if len(content) > 2000 {
		return fmt.Errorf("%w: comment too long (max 2000 characters)", apperrors.ErrValidation)
	}
	return nil
}
