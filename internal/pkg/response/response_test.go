package response

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xyz-asif/civicgo/pkg/errors"
)

func TestSuccessAndErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Success(c, map[string]string{"foo": "bar"})
	require.Equal(t, 200, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "success", body["status"])
	require.Contains(t, body, "data")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Error(c, 400, "bad request", "BAD_REQ")
	require.Equal(t, 400, w.Code)
	var bodyErr map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bodyErr))
	require.Equal(t, "bad request", bodyErr["error"])
	require.Equal(t, "BAD_REQ", bodyErr["code"])
}

func TestPaginatedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	items := []map[string]any{{"id": 1}, {"id": 2}}
	Paginated(c, items, 2, 10, 1)

	require.Equal(t, 200, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, float64(2), body["total"])
	require.Equal(t, float64(10), body["limit"])
	require.Equal(t, float64(1), body["page"])
}

func TestHandleErrorMapsTaxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.ErrNotFound, 404, "NOT_FOUND"},
		{apperrors.ErrValidation, 422, "VALIDATION_FAILED"},
		{apperrors.ErrAlreadyVerified, 409, "ALREADY_VERIFIED"},
		{apperrors.ErrAlreadyUpvoted, 409, "ALREADY_UPVOTED"},
		{apperrors.ErrAlreadyJoined, 409, "ALREADY_JOINED"},
		{apperrors.ErrDriveFull, 409, "DRIVE_FULL"},
		{apperrors.ErrInvalidState, 409, "INVALID_STATE"},
		{apperrors.ErrPermission, 403, "FORBIDDEN"},
		{apperrors.ErrOffline, 503, "OFFLINE"},
		{apperrors.ErrTransientStore, 503, "TRY_AGAIN"},
		{fmt.Errorf("unexpected"), 500, "INTERNAL"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		HandleError(c, tc.err)
		require.Equal(t, tc.status, w.Code, tc.err.Error())

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, tc.code, body["code"], tc.err.Error())
	}
}

func TestHandleErrorWrappedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleError(c, fmt.Errorf("verify issue: %w", apperrors.ErrAlreadyVerified))
	require.Equal(t, 409, w.Code)
}
