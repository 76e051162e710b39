package drives

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category constants
const (
	CategoryCleanup     = "cleanup"
	CategoryPlantation  = "plantation"
	CategoryAwareness   = "awareness"
	CategoryMaintenance = "maintenance"
	CategoryOther       = "other"
)

// Status constants
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Coordinates is a geographic point
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Organizer is the embedded snapshot of the drive's creator
type Organizer struct {
	UserID string `bson:"userId" json:"userId"`
	Name   string `bson:"name" json:"name"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// Drive represents a scheduled community activity. participantCount always
// equals len(participants); the two move together in one update.
type Drive struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Category         string             `bson:"category" json:"category"`
	Date             time.Time          `bson:"date" json:"date"`
	Location         string             `bson:"location" json:"location"`
	Coordinates      Coordinates        `bson:"coordinates" json:"coordinates"`
	Organizer        Organizer          `bson:"organizer" json:"organizer"`
	Participants     []string           `bson:"participants" json:"participants"`
	ParticipantCount int                `bson:"participantCount" json:"participantCount"`
	MaxParticipants  int                `bson:"maxParticipants" json:"maxParticipants"` // 0 means unlimited
	PointsReward     int                `bson:"pointsReward" json:"pointsReward"`
	Status           string             `bson:"status" json:"status"`
	Tags             []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Requirements     []string           `bson:"requirements,omitempty" json:"requirements,omitempty"`
	ContactInfo      string             `bson:"contactInfo,omitempty" json:"contactInfo,omitempty"`
	Image            string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UpdateStatusRequest is the payload for a drive status transition
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateDriveRequest is the payload for creating a drive
type CreateDriveRequest struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	Date            time.Time    `json:"date"`
	Location        string       `json:"location"`
	Coordinates     *Coordinates `json:"coordinates"`
	MaxParticipants int          `json:"maxParticipants"`
	PointsReward    int          `json:"pointsReward"`
	Tags            []string     `json:"tags"`
	Requirements    []string     `json:"requirements"`
	ContactInfo     string       `json:"contactInfo"`
	Image           string       `json:"image"`
}
