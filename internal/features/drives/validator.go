package drives

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

var validCategories = map[string]bool{
	CategoryCleanup:     true,
	CategoryPlantation:  true,
	CategoryAwareness:   true,
	CategoryMaintenance: true,
	CategoryOther:       true,
}

var validStatuses = map[string]bool{
	StatusUpcoming:  true,
	StatusOngoing:   true,
	StatusCompleted: true,
}

func ValidateCreateDrive(req *CreateDriveRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if !validCategories[req.Category] {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}
	if req.Date.IsZero() || req.Date.Before(time.Now()) {
		return fmt.Errorf("%w: date must be in the future", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Location) == "" {
		return fmt.Errorf("%w: location is required", apperrors.ErrValidation)
	}
	if req.Coordinates == nil {
		return fmt.Errorf("%w: coordinates are required", apperrors.ErrValidation)
	}
	if req.MaxParticipants < 0 {
		return fmt.Errorf("%w: maxParticipants cannot be negative", apperrors.ErrValidation)
	}
	if req.PointsReward < 0 {
		return fmt.Errorf("%w: pointsReward cannot be negative", apperrors.ErrValidation)
	}
	return nil
}

func ValidateStatus(status string) error {
	if !validStatuses[status] {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}
	return nil
}
