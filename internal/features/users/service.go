package users

import (
	"context"
	"time"

	"github.com/xyz-asif/civicgo/internal/pkg/cache"
	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

// Store is the persistence surface the ledger needs. *Repository satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	GetOrCreate(ctx context.Context, seed *UserProfile) (*UserProfile, error)
	GetByID(ctx context.Context, id string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) error
	ApplyStats(ctx context.Context, id string, delta StatsDelta) error
	Leaderboard(ctx context.Context, limit int) ([]UserProfile, error)
	CountWithMorePoints(ctx context.Context, points int) (int64, error)
}

const (
	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

// Service is the civic points ledger: every point-earning action funnels
// through an Award method, and every award is a single commutative delta.
type Service struct {
	store Store
	cache *cache.Cache
}

func NewService(store Store, c *cache.Cache) *Service {
	return &Service{store: store, cache: c}
}

// GetOrCreateProfile lazily creates the profile on first access, seeded
// from the identity provider's claims.
func (s *Service) GetOrCreateProfile(ctx context.Context, id, name, email, avatar string) (*UserProfile, error) {
	if id == "" {
		return nil, apperrors.ErrValidation
	}
	return s.store.GetOrCreate(ctx, &UserProfile{
		ID:     id,
		Name:   name,
		Email:  email,
		Avatar: avatar,
	})
}

func (s *Service) GetProfile(ctx context.Context, id string) (*UserProfile, error) {
	profile, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, req *UpdateProfileRequest) error {
	return s.store.UpdateProfile(ctx, id, req)
}

// AwardReportIssue grants report points and bumps the reported counter in
// one atomic update.
func (s *Service) AwardReportIssue(ctx context.Context, userID string) error {
	return s.store.ApplyStats(ctx, userID, StatsDelta{
		Points:         PointsReportIssue,
		IssuesReported: 1,
	})
}

func (s *Service) AwardComment(ctx context.Context, userID string) error {
	return s.store.ApplyStats(ctx, userID, StatsDelta{Points: PointsComment})
}

// AwardVerification grants verify points and bumps the verifications
// counter for the verifying user.
func (s *Service) AwardVerification(ctx context.Context, userID string) error {
	return s.store.ApplyStats(ctx, userID, StatsDelta{
		Points:        PointsVerifyResolution,
		Verifications: 1,
	})
}

// AwardUpvote grants the upvote point to the issue's reporter, not the
// upvoter.
func (s *Service) AwardUpvote(ctx context.Context, reporterID string) error {
	return s.store.ApplyStats(ctx, reporterID, StatsDelta{Points: PointsUpvote})
}

func (s *Service) AwardJoinDrive(ctx context.Context, userID string) error {
	return s.store.ApplyStats(ctx, userID, StatsDelta{Points: PointsJoinDrive})
}

// AwardOrganizeDrive grants the drive's configured reward, or the default
// organize grant when the drive has none.
func (s *Service) AwardOrganizeDrive(ctx context.Context, userID string, reward int) error {
	if reward <= 0 {
		reward = PointsOrganizeDrive
	}
	return s.store.ApplyStats(ctx, userID, StatsDelta{Points: reward})
}

// Leaderboard returns the top-N by points, served from the short-TTL cache
// when available.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := s.cache.Get(ctx, leaderboardCacheKey, &entries); err == nil && len(entries) > 0 {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}

	profiles, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries = make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			ID:     p.ID,
			Name:   p.Name,
			Avatar: p.Avatar,
			Points: p.Points,
			Rank:   i + 1,
		})
	}

	// Cache failures only cost freshness
	_ = s.cache.Set(ctx, leaderboardCacheKey, entries, leaderboardCacheTTL)

	return entries, nil
}

// Rank is a snapshot: 1 + count of users with strictly more points. Two
// users with equal points can observe different ranks under concurrent
// writes; accepted approximation.
func (s *Service) Rank(ctx context.Context, userID string) (*RankResponse, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	above, err := s.store.CountWithMorePoints(ctx, profile.Points)
	if err != nil {
		return nil, err
	}

	return &RankResponse{
		Rank:   int(above) + 1,
		Points: profile.Points,
		Level:  CalculateLevel(profile.Points),
	}, nil
}
