package issues

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/civicgo/internal/pkg/cloudinary"
	"github.com/xyz-asif/civicgo/internal/pkg/logger"
	"github.com/xyz-asif/civicgo/internal/pkg/pagination"
	"github.com/xyz-asif/civicgo/internal/pkg/response"
)

type Handler struct {
	service  *Service
	uploader *cloudinary.Service
}

func NewHandler(service *Service, uploader *cloudinary.Service) *Handler {
	return &Handler{service: service, uploader: uploader}
}

func issueID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid issue ID", "INVALID_ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// Report godoc
// @Summary Report a new issue
// @Description Creates an issue with status open and grants report points to the caller
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReportIssueRequest true "Issue details"
// @Success 201 {object} response.SuccessResponse{data=Issue}
// @Failure 422 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /issues [post]
func (h *Handler) Report(c *gin.Context) {
	var req ReportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	issue, err := h.service.Report(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, issue)
}

// List godoc
// @Summary List issues
// @Description Returns issues newest first
// @Tags issues
// @Produce json
// @Param limit query int false "Max results (default 50)"
// @Success 200 {object} response.SuccessResponse{data=[]Issue}
// @Router /issues [get]
func (h *Handler) List(c *gin.Context) {
	limit := int64(50)
	if l, err := strconv.ParseInt(c.Query("limit"), 10, 64); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	items, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, items)
}

// Mine godoc
// @Summary List my issues
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=[]Issue}
// @Router /issues/mine [get]
func (h *Handler) Mine(c *gin.Context) {
	items, err := h.service.ListByUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, items)
}

// Get godoc
// @Summary Get one issue
// @Tags issues
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} response.SuccessResponse{data=Issue}
// @Failure 404 {object} response.ErrorResponse
// @Router /issues/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	issue, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, issue)
}

// ChangeStatus godoc
// @Summary Change issue status
// @Description Sets the status and appends an entry to the issue's update log
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param request body ChangeStatusRequest true "New status"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /issues/{id}/status [put]
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := h.service.ChangeStatus(c.Request.Context(), id, &req); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"status": req.Status})
}

// Verify godoc
// @Summary Verify a resolved issue
// @Description One-way latch: succeeds at most once per issue, only while resolved
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /issues/{id}/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	if err := h.service.Verify(c.Request.Context(), id, c.GetString("userID")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"verified": true})
}

// DeleteImage godoc
// @Summary Delete an issue image
// @Description Removes the image from the CDN (best-effort) and from the issue record
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param request body DeleteImageRequest true "Image URL"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /issues/{id}/images [delete]
func (h *Handler) DeleteImage(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	var req DeleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}
	if req.ImageURL == "" {
		response.BadRequest(c, "imageUrl is required", "MISSING_IMAGE_URL")
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), id, req.ImageURL, c.GetString("userID")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": req.ImageURL})
}

// UploadImage godoc
// @Summary Upload an issue image
// @Description Uploads to the CDN and appends the URL to the issue's image list
// @Tags issues
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param file formData file true "Image file"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /issues/{id}/images [post]
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	if h.uploader == nil {
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

	result, err := h.uploader.UploadImage(c.Request.Context(), file, "issues")
	if err != nil {
		response.InternalServerError(c, "Failed to upload image", "UPLOAD_FAILED")
		return
	}

	if err := h.service.AddImage(c.Request.Context(), id, result.URL); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"url": result.URL})
}

// Delete godoc
// @Summary Delete an issue
// @Description Reporter-only. CDN images and child records are cleaned up best-effort
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /issues/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, c.GetString("userID")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": id.Hex()})
}

// AddComment godoc
// @Summary Comment on an issue
// @Description Adds a comment and grants comment points to the author
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Param request body AddCommentRequest true "Comment content"
// @Success 201 {object} response.SuccessResponse{data=Comment}
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /issues/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	comment, err := h.service.AddComment(
		c.Request.Context(),
		id,
		c.GetString("userID"),
		c.GetString("name"),
		"",
		&req,
	)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Created(c, comment)
}

// ListComments godoc
// @Summary List issue comments
// @Description Paginated, newest first
// @Tags issues
// @Produce json
// @Param id path string true "Issue ID"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Success 200 {object} response.PaginatedResponse{data=[]Comment}
// @Router /issues/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	page, limit := pagination.FromQuery(c.Query("page"), c.Query("limit"))

	items, total, err := h.service.ListComments(c.Request.Context(), id, int64(limit), int64((page-1)*limit))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, items, total, limit, page)
}

// Upvote godoc
// @Summary Upvote an issue
// @Description One upvote per user per issue; the point goes to the reporter
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param id path string true "Issue ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /issues/{id}/upvote [post]
func (h *Handler) Upvote(c *gin.Context) {
	id, ok := issueID(c)
	if !ok {
		return
	}

	if err := h.service.Upvote(c.Request.Context(), id, c.GetString("userID")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, gin.H{"upvoted": true})
}

// Live godoc
// @Summary Live issue stream
// @Description Server-sent events feed of issue changes
// @Tags issues
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /issues/live [get]
func (h *Handler) Live(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	events := make(chan Event, 16)

	go func() {
		defer close(events)
		if err := h.service.Watch(ctx, events); err != nil {
			logger.Warn("issue change stream closed: %v", err)
		}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-events:
			if !open {
				return false
			}
			c.SSEvent("issue", event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
