package issues

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/civicgo/internal/pkg/besteffort"
	"github.com/xyz-asif/civicgo/internal/pkg/connectivity"
	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

// Store is the persistence surface the lifecycle engine needs. *Repository
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	Insert(ctx context.Context, issue *Issue) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Issue, error)
	List(ctx context.Context, limit int64) ([]Issue, error)
	ListByUser(ctx context.Context, userID string) ([]Issue, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, images []string, entry Update) error
	MarkVerified(ctx context.Context, id primitive.ObjectID, entry Update) (bool, error)
	AddImage(ctx context.Context, id primitive.ObjectID, imageURL string) error
	RemoveImage(ctx context.Context, id primitive.ObjectID, imageURL string, entry Update) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteComments(ctx context.Context, issueID primitive.ObjectID) error
	DeleteUpvotes(ctx context.Context, issueID primitive.ObjectID) error
	InsertComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, issueID primitive.ObjectID, limit, skip int64) ([]Comment, int64, error)
	InsertUpvote(ctx context.Context, issueID primitive.ObjectID, userID string) error
	IncrementUpvotes(ctx context.Context, id primitive.ObjectID) error
}

// Ledger is the slice of the points service the lifecycle engine calls.
// Declared here so this package does not import the users package.
type Ledger interface {
	AwardReportIssue(ctx context.Context, userID string) error
	AwardComment(ctx context.Context, userID string) error
	AwardVerification(ctx context.Context, userID string) error
	AwardUpvote(ctx context.Context, reporterID string) error
}

// ImageStore deletes CDN images by their public URL. Failures are always
// best-effort for callers in this package.
type ImageStore interface {
	DeleteByURL(ctx context.Context, imageURL string) error
}

type Service struct {
	store  Store
	ledger Ledger
	images ImageStore
	online connectivity.Checker
}

func NewService(store Store, ledger Ledger, images ImageStore, online connectivity.Checker) *Service {
	return &Service{store: store, ledger: ledger, images: images, online: online}
}

// Report creates the issue with its first log entry and grants the reporter
// their points. The grant is a separate commutative increment; if it fails
// the issue still stands.
func (s *Service) Report(ctx context.Context, userID string, req *ReportIssueRequest) (*Issue, error) {
	if err := ValidateReport(req); err != nil {
		return nil, err
	}
	if err := s.online.Online(ctx); err != nil {
		return nil, err
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = UrgencyMedium
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	issue := &Issue{
		UserID:      userID,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		Coordinates: *req.Coordinates,
		Urgency:     urgency,
		Status:      StatusOpen,
		Verified:    false,
		Upvotes:     0,
		Images:      images,
		Updates:     []Update{NewStatusChange(StatusOpen, "Issue reported")},
	}

	if err := s.store.Insert(ctx, issue); err != nil {
		return nil, err
	}

	besteffort.Do(ctx, "award report points", func(ctx context.Context) error {
		return s.ledger.AwardReportIssue(ctx, userID)
	})

	return issue, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Issue, error) {
	issue, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, apperrors.ErrNotFound
	}
	return issue, nil
}

func (s *Service) List(ctx context.Context, limit int64) ([]Issue, error) {
	return s.store.List(ctx, limit)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Issue, error) {
	return s.store.ListByUser(ctx, userID)
}

// ChangeStatus moves the issue to any status. Transitions are deliberately
// unrestricted; only verification has preconditions.
func (s *Service) ChangeStatus(ctx context.Context, id primitive.ObjectID, req *ChangeStatusRequest) error {
	if err := ValidateStatus(req.Status); err != nil {
		return err
	}
	if err := s.online.Online(ctx); err != nil {
		return err
	}

	return s.store.UpdateStatus(ctx, id, req.Status, req.Images, NewStatusChange(req.Status, req.Comment))
}

// Verify latches verified=true exactly once. The conditional update carries
// both preconditions; on zero matches a follow-up read tells the caller
// which one failed.
func (s *Service) Verify(ctx context.Context, id primitive.ObjectID, userID string) error {
	if err := s.online.Online(ctx); err != nil {
		return err
	}

	ok, err := s.store.MarkVerified(ctx, id, NewVerificationAdded(userID))
	if err != nil {
		return err
	}
	if !ok {
		issue, err := s.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		switch {
		case issue == nil:
			return apperrors.ErrNotFound
		case issue.Verified:
			return apperrors.ErrAlreadyVerified
		default:
			return fmt.Errorf("%w: issue must be resolved before verification", apperrors.ErrInvalidState)
		}
	}

	besteffort.Do(ctx, "award verification points", func(ctx context.Context) error {
		return s.ledger.AwardVerification(ctx, userID)
	})

	return nil
}

// DeleteImage removes the CDN copy best-effort, then the URL and the log
// entry from the record. A CDN failure never blocks the record update.
func (s *Service) DeleteImage(ctx context.Context, id primitive.ObjectID, imageURL, userID string) error {
	issue, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	besteffort.Do(ctx, "delete issue image from cdn", func(ctx context.Context) error {
		return s.images.DeleteByURL(ctx, imageURL)
	})

	return s.store.RemoveImage(ctx, id, imageURL, NewPhotoDeleted(issue.Status, userID))
}

// Delete removes the issue. Only the reporter may delete it. CDN images and
// the comment/upvote collections are cleaned up best-effort; their failures
// never block removal of the record.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	issue, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if issue.UserID != userID {
		return fmt.Errorf("%w: only the reporter can delete an issue", apperrors.ErrPermission)
	}

	steps := make([]besteffort.Step, 0, len(issue.Images))
	for _, img := range issue.Images {
		imageURL := img
		steps = append(steps, besteffort.Step{
			Label: "delete issue image from cdn",
			Run: func(ctx context.Context) error {
				return s.images.DeleteByURL(ctx, imageURL)
			},
		})
	}
	besteffort.All(ctx, steps...)

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	besteffort.Do(ctx, "delete issue comments", func(ctx context.Context) error {
		return s.store.DeleteComments(ctx, id)
	})
	besteffort.Do(ctx, "delete issue upvote markers", func(ctx context.Context) error {
		return s.store.DeleteUpvotes(ctx, id)
	})

	return nil
}

// AddComment stores the comment and grants the author comment points.
func (s *Service) AddComment(ctx context.Context, id primitive.ObjectID, userID, userName, userAvatar string, req *AddCommentRequest) (*Comment, error) {
	if err := ValidateComment(req); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	comment := &Comment{
		IssueID:    id,
		UserID:     userID,
		UserName:   userName,
		UserAvatar: userAvatar,
		Content:    req.Content,
	}
	if err := s.store.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	besteffort.Do(ctx, "award comment points", func(ctx context.Context) error {
		return s.ledger.AwardComment(ctx, userID)
	})

	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, id primitive.ObjectID, limit, skip int64) ([]Comment, int64, error) {
	return s.store.ListComments(ctx, id, limit, skip)
}

// Upvote inserts the per-user marker first; the unique index makes the
// second attempt fail before the counter moves. The point goes to the
// issue's reporter.
func (s *Service) Upvote(ctx context.Context, id primitive.ObjectID, userID string) error {
	issue, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.InsertUpvote(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.IncrementUpvotes(ctx, id); err != nil {
		return err
	}

	besteffort.Do(ctx, "award upvote points to reporter", func(ctx context.Context) error {
		return s.ledger.AwardUpvote(ctx, issue.UserID)
	})

	return nil
}

// AddImage appends an already-uploaded image URL to the issue.
func (s *Service) AddImage(ctx context.Context, id primitive.ObjectID, imageURL string) error {
	return s.store.AddImage(ctx, id, imageURL)
}

// Watcher is implemented by stores that can push change notifications.
type Watcher interface {
	Watch(ctx context.Context, events chan<- Event) error
}

// Watch forwards issue change notifications until ctx is cancelled. Stores
// without push support report ErrInternal.
func (s *Service) Watch(ctx context.Context, events chan<- Event) error {
	w, ok := s.store.(Watcher)
	if !ok {
		return apperrors.ErrInternal
	}
	return w.Watch(ctx, events)
}
