package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"syapos/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func bindMovementBody(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/sync/expenses", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req dto.SyncMovementRequest
	ok := bindAndValidate(c, &req)
	return w, ok
}

func TestBindSinGlobalIDResponde400(t *testing.T) {
	// Without its idempotency key the record is malformed, not unprocessable.
	body := fmt.Sprintf(`{"employee_global_id":%q,"shift_global_id":%q,"amount":30,"description":"hielo","date":"2026-08-28T10:00:00Z"}`,
		uuid.NewString(), uuid.NewString())
	w, ok := bindMovementBody(t, body)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBindCampoInvalidoResponde422(t *testing.T) {
	body := fmt.Sprintf(`{"global_id":%q,"employee_global_id":%q,"shift_global_id":%q,"amount":30,"description":"h","date":"2026-08-28T10:00:00Z"}`,
		uuid.NewString(), uuid.NewString(), uuid.NewString())
	w, ok := bindMovementBody(t, body)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
