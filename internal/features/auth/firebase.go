package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/xyz-asif/civicgo/internal/config"
	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

// InitFirebase initializes the Firebase Admin SDK and returns the Auth client
func InitFirebase(cfg *config.Config) (*fbauth.Client, error) {
	opt := option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %v", err)
	}

	return client, nil
}

// IdentityUser is the identity-provider data used to seed a profile
type IdentityUser struct {
	UID           string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// VerifyGoogleToken validates a Google ID token against the configured
// client ID and extracts the standard claims.
func VerifyGoogleToken(ctx context.Context, rawToken, clientID string) (*IdentityUser, error) {
	payload, err := idtoken.Validate(ctx, rawToken, clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid google token", apperrors.ErrPermission)
	}

	user := &IdentityUser{UID: payload.Subject}

	if email, ok := payload.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		user.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		user.Picture = picture
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		user.EmailVerified = verified
	}

	return user, nil
}

// VerifyFirebaseToken validates a Firebase ID token and extracts the same
// identity claims.
func VerifyFirebaseToken(ctx context.Context, client *fbauth.Client, rawToken string) (*IdentityUser, error) {
	decoded, err := client.VerifyIDToken(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid firebase token", apperrors.ErrPermission)
	}

	user := &IdentityUser{UID: decoded.UID}

	if email, ok := decoded.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		user.Name = name
	}
	if picture, ok := decoded.Claims["picture"].(string); ok {
		user.Picture = picture
	}
	if verified, ok := decoded.Claims["email_verified"].(bool); ok {
		user.EmailVerified = verified
	}

	return user, nil
}
