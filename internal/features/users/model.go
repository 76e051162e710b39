// ================== internal/features/users/model.go ==================
package users

import "time"

// UserProfile is the stored profile plus the civic stats counters. The ID is
// the identity provider's UID, so it doubles as the document key.
// @Description User profile with civic points and activity counters
type UserProfile struct {
	ID             string    `bson:"_id" json:"id" example:"y7Fg2hJk..."`
	Name           string    `bson:"name" json:"name" example:"Asha Kulkarni"`
	Email          string    `bson:"email" json:"email" example:"asha@example.com"`
	Avatar         string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Points         int       `bson:"points" json:"points" example:"115"`
	IssuesReported int       `bson:"issuesReported" json:"issuesReported" example:"4"`
	IssuesResolved int       `bson:"issuesResolved" json:"issuesResolved" example:"1"`
	Verifications  int       `bson:"verifications" json:"verifications" example:"2"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// StatsDelta is a set of relative increments applied in one atomic update.
// Only `$inc` semantics, never read-modify-write (counters must commute
// under concurrent requests).
type StatsDelta struct {
	Points         int
	IssuesReported int
	IssuesResolved int
	Verifications  int
}

// UpdateProfileRequest represents an explicit profile edit
type UpdateProfileRequest struct {
	Name   string `json:"name" example:"Asha K."`
	Avatar string `json:"avatar" example:"https://res.cloudinary.com/demo/image/upload/profile-images/u1.png"`
}

// LeaderboardEntry is one row of the points leaderboard
type LeaderboardEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Points int    `json:"points"`
	Rank   int    `json:"rank"`
}

// RankResponse pairs the snapshot rank with the derived level
type RankResponse struct {
	Rank   int       `json:"rank"`
	Points int       `json:"points"`
	Level  LevelInfo `json:"level"`
}
