// Package connectivity implements the fail-fast offline guard used before
// mutating operations: a cheap store ping with a short timeout, so callers
// get a specific offline error instead of a slow driver timeout.
package connectivity

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

// Checker reports whether the backing store is currently reachable.
type Checker interface {
	Online(ctx context.Context) error
}

// PingChecker pings the Mongo deployment with a short deadline.
type PingChecker struct {
	client  *mongo.Client
	timeout time.Duration
}

func NewPingChecker(client *mongo.Client) *PingChecker {
	return &PingChecker{client: client, timeout: 2 * time.Second}
}

func (p *PingChecker) Online(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.Ping(ctx, readpref.Primary()); err != nil {
		return apperrors.ErrOffline
	}
	return nil
}

// Always never reports offline. Used in tests and when the guard is disabled.
type Always struct{}

func (Always) Online(ctx context.Context) error { return nil }
