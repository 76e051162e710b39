package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/civicgo/internal/config"
	"github.com/xyz-asif/civicgo/internal/features/users"
	"github.com/xyz-asif/civicgo/internal/pkg/response"
	"github.com/xyz-asif/civicgo/internal/pkg/token"
)

// Profiles is the slice of the users service sign-in needs.
type Profiles interface {
	GetOrCreateProfile(ctx context.Context, id, name, email, avatar string) (*users.UserProfile, error)
}

type Handler struct {
	profiles Profiles
	firebase *fbauth.Client
	cfg      *config.Config
}

func NewHandler(profiles Profiles, firebase *fbauth.Client, cfg *config.Config) *Handler {
	return &Handler{profiles: profiles, firebase: firebase, cfg: cfg}
}

// GoogleLogin godoc
// @Summary Sign in with Google
// @Description Verifies a Google ID token, lazily creates the profile, and returns an app JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleAuthRequest true "Google ID token"
// @Success 200 {object} AuthResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	identity, err := VerifyGoogleToken(c.Request.Context(), req.GoogleIDToken, h.cfg.GoogleClientID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	h.signIn(c, identity)
}

// FirebaseLogin godoc
// @Summary Sign in with Firebase
// @Description Verifies a Firebase ID token, lazily creates the profile, and returns an app JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body FirebaseAuthRequest true "Firebase ID token"
// @Success 200 {object} AuthResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /auth/firebase [post]
func (h *Handler) FirebaseLogin(c *gin.Context) {
	var req FirebaseAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if h.firebase == nil {
		response.InternalServerError(c, "Firebase sign-in not configured", "FIREBASE_DISABLED")
		return
	}

	identity, err := VerifyFirebaseToken(c.Request.Context(), h.firebase, req.FirebaseIDToken)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	h.signIn(c, identity)
}

// signIn exchanges a verified identity for an app session: the profile is
// created on first sign-in, seeded from the provider's claims.
func (h *Handler) signIn(c *gin.Context, identity *IdentityUser) {
	profile, err := h.profiles.GetOrCreateProfile(
		c.Request.Context(),
		identity.UID,
		identity.Name,
		identity.Email,
		identity.Picture,
	)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	jwt, err := token.GenerateToken(profile.ID, profile.Email, profile.Name)
	if err != nil {
		response.InternalServerError(c, "Failed to generate token", "TOKEN_FAILED")
		return
	}

	response.Success(c, AuthResponse{Token: jwt, User: profile})
}
