package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildPagination(t *testing.T) {
	cases := []struct {
		name     string
		page     int
		pageSize int
		total    int64
		want     int64
	}{
		{name: "exact", page: 1, pageSize: 20, total: 40, want: 2},
		{name: "remainder", page: 2, pageSize: 20, total: 41, want: 3},
		{name: "empty", page: 1, pageSize: 20, total: 0, want: 0},
		{name: "zero page size", page: 1, pageSize: 0, total: 5, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildPagination(tc.page, tc.pageSize, tc.total)
			if got.TotalPage != tc.want {
				t.Fatalf("total page want %d got %d", tc.want, got.TotalPage)
			}
		})
	}
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	Error(c, CodeForbidden, "denied")

	var body struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if w.Code != 200 || body.StatusCode != CodeForbidden || body.Msg != "denied" {
		t.Fatalf("unexpected envelope: code=%d body=%+v", w.Code, body)
	}
	if body.Data["request_id"] != "req-9" {
		t.Fatalf("request id want req-9 got %v", body.Data)
	}
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, []int{1, 2}, BuildPagination(1, 2, 3))

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"status_code", "msg", "data", "pagination"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing top level key %s in %v", key, body)
		}
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("boom")
	err := WrapError(CodeOK, "failed", base)
	if err.Code != CodeInternal {
		t.Fatalf("ok code should become internal, got %d", err.Code)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base")
	}
	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected message %s", err.Error())
	}
}
