package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorUsesHTTPStatusAndEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Forbidden(c, "forbidden")

	if w.Code != http.StatusForbidden {
		t.Fatalf("unexpected http status: %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != CodeForbidden || body.Msg != "forbidden" {
		t.Fatalf("unexpected body: %+v", body)
	}
	data, ok := body.Data.(map[string]interface{})
	if !ok || data["request_id"] != "req-1" {
		t.Fatalf("request id should be attached: %+v", body.Data)
	}
}

func TestSuccessWithPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, []int{1, 2}, BuildPagination(2, 2, 5))

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected http status: %d", w.Code)
	}
	var body PageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.Pagination.TotalPage != 3 || body.Pagination.Page != 2 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
}

func TestHTTPStatusFallback(t *testing.T) {
	if got := httpStatus(12345); got != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", got)
	}
}
