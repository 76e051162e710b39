package issues

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category constants
const (
	CategoryPothole     = "pothole"
	CategoryWaterLeak   = "waterLeak"
	CategoryGarbage     = "garbage"
	CategoryFallenTree  = "fallenTree"
	CategoryStreetlight = "streetlight"
	CategoryDisaster    = "disaster"
	CategoryOther       = "other"
)

// Status constants
const (
	StatusOpen       = "open"
	StatusInProgress = "inProgress"
	StatusResolved   = "resolved"
)

// Urgency constants
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Update kind constants
const (
	UpdateStatusChange      = "statusChange"
	UpdatePhotoDeleted      = "photoDeleted"
	UpdateVerificationAdded = "verificationAdded"
)

// Coordinates is a geographic point
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Update is one immutable entry in an issue's history log. Kind tells which
// fields are meaningful; entries are appended and never edited.
type Update struct {
	Kind    string    `bson:"kind" json:"kind"` // "statusChange", "photoDeleted", "verificationAdded"
	Date    time.Time `bson:"date" json:"date"`
	Status  string    `bson:"status" json:"status"`
	Comment string    `bson:"comment" json:"comment"`
	Author  string    `bson:"author,omitempty" json:"author,omitempty"`
}

// NewStatusChange records a status transition together with the status value
// in effect afterwards.
func NewStatusChange(status, comment string) Update {
	return Update{
		Kind:    UpdateStatusChange,
		Date:    time.Now(),
		Status:  status,
		Comment: comment,
	}
}

// NewPhotoDeleted records a removed photo; status is the issue's status at
// removal time.
func NewPhotoDeleted(status, author string) Update {
	return Update{
		Kind:    UpdatePhotoDeleted,
		Date:    time.Now(),
		Status:  status,
		Comment: "Photo deleted",
		Author:  author,
	}
}

// NewVerificationAdded records a citizen verification of a resolved issue.
func NewVerificationAdded(author string) Update {
	return Update{
		Kind:    UpdateVerificationAdded,
		Date:    time.Now(),
		Status:  StatusResolved,
		Comment: "Resolution verified by citizen",
		Author:  author,
	}
}

// Issue represents a reported civic problem
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userId" json:"userId"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description" json:"description"`
	Location    string             `bson:"location" json:"location"`
	Coordinates Coordinates        `bson:"coordinates" json:"coordinates"`
	Urgency     string             `bson:"urgency" json:"urgency"`
	Status      string             `bson:"status" json:"status"`
	Verified    bool               `bson:"verified" json:"verified"`
	Upvotes     int                `bson:"upvotes" json:"upvotes"`
	Images      []string           `bson:"images" json:"images"`
	Updates     []Update           `bson:"updates" json:"updates"`
	ResolvedOn  *time.Time         `bson:"resolvedOn,omitempty" json:"resolvedOn,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Comment lives in its own collection keyed by issue id, not embedded in the
// issue document.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID    primitive.ObjectID `bson:"issueId" json:"issueId"`
	UserID     string             `bson:"userId" json:"userId"`
	UserName   string             `bson:"userName" json:"userName"`
	UserAvatar string             `bson:"userAvatar,omitempty" json:"userAvatar,omitempty"`
	Content    string             `bson:"content" json:"content"`
	Likes      int                `bson:"likes" json:"likes"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpvoteMarker enforces one upvote per user per issue through a unique
// compound index on (issueId, userId).
type UpvoteMarker struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID   primitive.ObjectID `bson:"issueId" json:"issueId"`
	UserID    string             `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ReportIssueRequest is the payload for creating an issue
type ReportIssueRequest struct {
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Coordinates *Coordinates `json:"coordinates"`
	Urgency     string       `json:"urgency"`
	Images      []string     `json:"images"`
}

// ChangeStatusRequest is the payload for a status transition
type ChangeStatusRequest struct {
	Status  string   `json:"status"`
	Comment string   `json:"comment"`
	Images  []string `json:"images"`
}

// AddCommentRequest is the payload for commenting on an issue
type AddCommentRequest struct {
	Content string `json:"content"`
}

// DeleteImageRequest names the image URL to remove
type DeleteImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// Event is one change-stream notification pushed to live subscribers
type Event struct {
	Type  string `json:"type"` // "insert", "update", "delete", "replace"
	Issue *Issue `json:"issue,omitempty"`
	ID    string `json:"id"`
}
