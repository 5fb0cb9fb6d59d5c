package handler

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreatePriorityEnforcesDailyLimit(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/priorities?date=2025-07-01", map[string]any{
			"content": fmt.Sprintf("优先事项 %d", i+1),
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 creating priority %d, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, http.MethodPost, "/api/priorities?date=2025-07-01", map[string]any{
		"content": "超出上限",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for sixth priority, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/priorities?date=2025-07-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 listing priorities, got %d: %s", w.Code, w.Body.String())
	}

	var listed struct {
		Priorities []struct {
			Content string `json:"content"`
		} `json:"priorities"`
	}
	decodeBody(t, w, &listed)
	if len(listed.Priorities) != 5 {
		t.Fatalf("expected 5 priorities after rejection, got %d", len(listed.Priorities))
	}

	// 次日不受今日上限影响
	w = doJSON(t, r, http.MethodPost, "/api/priorities?date=2025-07-02", map[string]any{
		"content": "新的一天",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 creating priority on next day, got %d: %s", w.Code, w.Body.String())
	}
}
