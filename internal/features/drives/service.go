package drives

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/civicgo/internal/pkg/besteffort"
	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

// Store is the persistence surface the participation engine needs.
type Store interface {
	Insert(ctx context.Context, drive *Drive) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Drive, error)
	List(ctx context.Context, limit int64) ([]Drive, error)
	ListUpcoming(ctx context.Context, limit int64) ([]Drive, error)
	Join(ctx context.Context, id primitive.ObjectID, userID string) (bool, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Ledger is the slice of the points service the participation engine calls.
type Ledger interface {
	AwardJoinDrive(ctx context.Context, userID string) error
	AwardOrganizeDrive(ctx context.Context, userID string, reward int) error
}

type Service struct {
	store  Store
	ledger Ledger
}

func NewService(store Store, ledger Ledger) *Service {
	return &Service{store: store, ledger: ledger}
}

// Create persists the drive with empty membership and grants the organizer
// their reward.
func (s *Service) Create(ctx context.Context, organizer Organizer, req *CreateDriveRequest) (*Drive, error) {
	if err := ValidateCreateDrive(req); err != nil {
		return nil, err
	}

	drive := &Drive{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Date:             req.Date,
		Location:         req.Location,
		Coordinates:      *req.Coordinates,
		Organizer:        organizer,
		Participants:     []string{},
		ParticipantCount: 0,
		MaxParticipants:  req.MaxParticipants,
		PointsReward:     req.PointsReward,
		Status:           StatusUpcoming,
		Tags:             req.Tags,
		Requirements:     req.Requirements,
		ContactInfo:      req.ContactInfo,
		Image:            req.Image,
	}

	if err := s.store.Insert(ctx, drive); err != nil {
		return nil, err
	}

	besteffort.Do(ctx, "award organize drive points", func(ctx context.Context) error {
		return s.ledger.AwardOrganizeDrive(ctx, organizer.UserID, req.PointsReward)
	})

	return drive, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Drive, error) {
	drive, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drive == nil {
		return nil, apperrors.ErrNotFound
	}
	return drive, nil
}

func (s *Service) List(ctx context.Context, limit int64) ([]Drive, error) {
	return s.store.List(ctx, limit)
}

func (s *Service) ListUpcoming(ctx context.Context, limit int64) ([]Drive, error) {
	return s.store.ListUpcoming(ctx, limit)
}

// Join adds the user through one conditional update. On zero matches a
// follow-up read tells the caller whether the drive is missing, the user is
// already in, or the drive is full. The join grant is issued only after the
// membership write commits.
func (s *Service) Join(ctx context.Context, id primitive.ObjectID, userID string) error {
	ok, err := s.store.Join(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		drive, err := s.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		switch {
		case drive == nil:
			return apperrors.ErrNotFound
		case contains(drive.Participants, userID):
			return apperrors.ErrAlreadyJoined
		case drive.MaxParticipants > 0 && drive.ParticipantCount >= drive.MaxParticipants:
			return apperrors.ErrDriveFull
		default:
			return fmt.Errorf("%w: join rejected", apperrors.ErrInvalidState)
		}
	}

	besteffort.Do(ctx, "award join drive points", func(ctx context.Context) error {
		return s.ledger.AwardJoinDrive(ctx, userID)
	})

	return nil
}

// UpdateStatus moves a drive between upcoming/ongoing/completed. Organizer
// only.
func (s *Service) UpdateStatus(ctx context.Context, id primitive.ObjectID, userID, status string) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}

	drive, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if drive.Organizer.UserID != userID {
		return fmt.Errorf("%w: only the organizer can update a drive", apperrors.ErrPermission)
	}

	return s.store.UpdateStatus(ctx, id, status)
}

// Delete removes the drive. Points already earned by participants are not
// revoked.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	drive, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if drive.Organizer.UserID != userID {
		return fmt.Errorf("%w: only the organizer can delete a drive", apperrors.ErrPermission)
	}

	return s.store.Delete(ctx, id)
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
