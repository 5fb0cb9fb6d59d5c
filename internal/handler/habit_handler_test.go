package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestCreateHabitAndCheckUpdatesScore(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	w := doJSON(t, r, http.MethodPost, "/api/habits", map[string]any{
		"name":        "晨跑",
		"category":    "physical",
		"time_of_day": "morning",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 creating habit, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Habit struct {
			ID     uint `json:"id"`
			Active bool `json:"active"`
		} `json:"habit"`
	}
	decodeBody(t, w, &created)
	if created.Habit.ID == 0 {
		t.Fatal("expected created habit to have an ID")
	}
	if !created.Habit.Active {
		t.Fatal("expected habit to default to active")
	}

	w = doJSON(t, r, http.MethodPost, "/api/habits/1/completions", map[string]any{
		"day":    "2025-07-01",
		"status": "checked",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 setting completion, got %d: %s", w.Code, w.Body.String())
	}

	// 唯一习惯已打卡，习惯分应拿满权重 40，优先事项与待办为空记 0
	w = doJSON(t, r, http.MethodGet, "/api/score?date=2025-07-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching score, got %d: %s", w.Code, w.Body.String())
	}

	var scored struct {
		Score struct {
			Overall     int    `json:"overall"`
			Grade       string `json:"grade"`
			HabitsScore int    `json:"habits_score"`
		} `json:"score"`
	}
	decodeBody(t, w, &scored)
	if scored.Score.HabitsScore != 40 {
		t.Fatalf("expected habits score 40, got %d", scored.Score.HabitsScore)
	}
	if scored.Score.Overall != 40 {
		t.Fatalf("expected overall 40, got %d", scored.Score.Overall)
	}
	if scored.Score.Grade != "F" {
		t.Fatalf("expected grade F, got %q", scored.Score.Grade)
	}
}

func TestCreateHabitRejectsInvalidCategory(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	w := doJSON(t, r, http.MethodPost, "/api/habits", map[string]any{
		"name":     "冥想",
		"category": "emotional",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid category, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSetCompletionRejectsUnknownStatus(t *testing.T) {
	r, _, cleanup := setupTestAPI(t)
	defer cleanup()

	w := doJSON(t, r, http.MethodPost, "/api/habits", map[string]any{
		"name":     "阅读",
		"category": "mental",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 creating habit, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/habits/1/completions", map[string]any{
		"day":    "2025-07-01",
		"status": "half",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d: %s", w.Code, w.Body.String())
	}
}
