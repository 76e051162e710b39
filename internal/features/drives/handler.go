package drives

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/civicgo/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func driveID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid drive ID", "INVALID_ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func listLimit(c *gin.Context) int64 {
	limit := int64(50)
	if l, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	return limit
}

// Create godoc
// @Summary Create a drive
// @Description Creates a drive with status upcoming and grants the organizer points
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDriveRequest true "Drive details"
// @Success 201 {object} response.SuccessResponse{data=Drive}
// @Failure 422 {object} response.ErrorResponse
// @Router /drives [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateDriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	organizer := Organizer{
		UserID: c.GetString("userID"),
		Name:   c.GetString("name"),
	}

	drive, err := h.service.Create(c.Request.Context(), organizer, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, drive)
}

// List godoc
// @Summary List drives
// @Tags drives
// @Produce json
// @Param limit query int false "Max results (default 50)"
// @Success 200 {object} response.SuccessResponse{data=[]Drive}
// @Router /drives [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), listLimit(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, items)
}

// Upcoming godoc
// @Summary List upcoming drives
// @Tags drives
// @Produce json
// @Param limit query int false "Max results (default 50)"
// @Success 200 {object} response.SuccessResponse{data=[]Drive}
// @Router /drives/upcoming [get]
func (h *Handler) Upcoming(c *gin.Context) {
	items, err := h.service.ListUpcoming(c.Request.Context(), listLimit(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, items)
}

// Get godoc
// @Summary Get one drive
// @Tags drives
// @Produce json
// @Param id path string true "Drive ID"
// @Success 200 {object} response.SuccessResponse{data=Drive}
// @Failure 404 {object} response.ErrorResponse
// @Router /drives/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := driveID(c)
	if !ok {
		return
	}

	drive, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, drive)
}

// Join godoc
// @Summary Join a drive
// @Description One atomic membership update; rejects duplicates and full drives
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /drives/{id}/join [post]
func (h *Handler) Join(c *gin.Context) {
	id, ok := driveID(c)
	if !ok {
		return
	}

	if err := h.service.Join(c.Request.Context(), id, c.GetString("userID")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"joined": true})
}

// UpdateStatus godoc
// @Summary Update drive status
// @Description Organizer-only transition between upcoming, ongoing and completed
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /drives/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := driveID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, c.GetString("userID"), req.Status); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"status": req.Status})
}

// Delete godoc
// @Summary Delete a drive
// @Description Organizer-only; earned participant points are not revoked
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path string true "Drive ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /drives/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := driveID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, c.GetString("userID")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id.Hex()})
}
