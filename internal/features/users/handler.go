package users

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/civicgo/internal/pkg/cloudinary"
	"github.com/xyz-asif/civicgo/internal/pkg/response"
)

type Handler struct {
	service *Service
	images  *cloudinary.Service
}

func NewHandler(service *Service, images *cloudinary.Service) *Handler {
	return &Handler{service: service, images: images}
}

// GetMe godoc
// @Summary Get my profile
// @Description Returns the caller's profile, creating it on first access from the identity claims
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=UserProfile}
// @Failure 401 {object} response.ErrorResponse
// @Router /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	profile, err := h.service.GetOrCreateProfile(
		c.Request.Context(),
		c.GetString("userID"),
		c.GetString("name"),
		c.GetString("email"),
		"",
	)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateMe godoc
// @Summary Update my profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse{data=UserProfile}
// @Failure 422 {object} response.ErrorResponse
// @Router /users/me [put]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.GetString("userID")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := ValidateUpdateProfile(&req); err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), userID, &req); err != nil {
		response.HandleError(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, profile)
}

// UploadAvatar godoc
// @Summary Upload my avatar
// @Description Uploads a profile image to the CDN and stores its URL
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /users/me/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID := c.GetString("userID")

	if h.images == nil {
		response.InternalServerError(c, "Image uploads not configured", "UPLOADS_DISABLED")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required", "MISSING_FILE")
		return
	}
	defer file.Close()

	if err := cloudinary.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return
	}

	result, err := h.images.UploadAvatar(c.Request.Context(), file, userID)
	if err != nil {
		response.InternalServerError(c, "Failed to upload avatar", "UPLOAD_FAILED")
		return
	}

	if err := h.service.UpdateProfile(c.Request.Context(), userID, &UpdateProfileRequest{Avatar: result.URL}); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, map[string]string{"avatar": result.URL})
}

// Leaderboard godoc
// @Summary Points leaderboard
// @Tags users
// @Produce json
// @Param limit query int false "Number of entries (default 10, max 100)"
// @Success 200 {object} response.SuccessResponse{data=[]LeaderboardEntry}
// @Router /users/leaderboard [get]
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 10
	if l, ok := parseLimit(c.Query("limit")); ok {
		limit = l
	}

	entries, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, entries)
}

// MyRank godoc
// @Summary My rank and level
// @Description Snapshot rank plus the level derived from points
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=RankResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /users/me/rank [get]
func (h *Handler) MyRank(c *gin.Context) {
	rank, err := h.service.Rank(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, rank)
}
