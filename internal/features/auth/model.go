package auth

import "github.com/xyz-asif/civicgo/internal/features/users"

// GoogleAuthRequest represents the payload for Google sign-in
type GoogleAuthRequest struct {
	GoogleIDToken string `json:"googleIdToken" binding:"required"`
}

// FirebaseAuthRequest represents the payload for Firebase sign-in
type FirebaseAuthRequest struct {
	FirebaseIDToken string `json:"firebaseIdToken" binding:"required"`
}

// AuthResponse is returned after a successful sign-in
type AuthResponse struct {
	Token string             `json:"token"`
	User  *users.UserProfile `json:"user"`
}
