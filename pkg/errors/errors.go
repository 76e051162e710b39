// ================== pkg/errors/errors.go =================
package errors

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrValidation      = errors.New("validation failed")
	ErrPermission      = errors.New("permission denied")
	ErrInvalidState    = errors.New("operation not allowed in current state")
	ErrAlreadyVerified = errors.New("resolution already verified")
	ErrAlreadyUpvoted  = errors.New("issue already upvoted")
	ErrAlreadyJoined   = errors.New("drive already joined")
	ErrDriveFull       = errors.New("drive is full")
	ErrOffline         = errors.New("you are offline, check your connection")
	ErrTransientStore  = errors.New("store temporarily unavailable, try again")
	ErrInternal        = errors.New("internal server error")
)

// FromMongo maps driver errors onto the service taxonomy. Errors that have
// no mapping pass through unchanged so callers can still wrap them.
func FromMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case isUnauthorized(err):
		return ErrPermission
	case mongo.IsDuplicateKeyError(err):
		return ErrInvalidState
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, context.DeadlineExceeded):
		return ErrTransientStore
	}
	return err
}

func isUnauthorized(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 13 || cmdErr.Name == "Unauthorized"
	}
	return false
}

// IsRetryable reports whether the caller may usefully retry the operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientStore) || errors.Is(err, ErrOffline)
}
