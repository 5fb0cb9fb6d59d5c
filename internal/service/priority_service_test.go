package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lifetrack/internal/db"
)

func TestPriorityDailyCap(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(db.DB)
	svc := NewPriorityService(db.DB, scores)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(userID, day, PriorityInput{Content: fmt.Sprintf("事项 %d", i+1)}); err != nil {
			t.Fatalf("failed to create priority %d: %v", i+1, err)
		}
	}

	// 第 6 条必须被拒绝
	if _, err := svc.Create(userID, day, PriorityInput{Content: "事项 6"}); !errors.Is(err, ErrPriorityLimit) {
		t.Fatalf("expected ErrPriorityLimit, got %v", err)
	}

	priorities, err := svc.ListForDay(userID, day)
	if err != nil {
		t.Fatalf("ListForDay returned error: %v", err)
	}
	if len(priorities) != 5 {
		t.Fatalf("expected exactly 5 priorities, got %d", len(priorities))
	}

	// 上限按天独立
	nextDay := day.AddDate(0, 0, 1)
	if _, err := svc.Create(userID, nextDay, PriorityInput{Content: "新的一天"}); err != nil {
		t.Fatalf("expected creation on next day to succeed: %v", err)
	}
}

func TestPriorityMutationsRescore(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(db.DB)
	svc := NewPriorityService(db.DB, scores)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)

	first, err := svc.Create(userID, day, PriorityInput{Content: "写周报", Completed: true})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(userID, day, PriorityInput{Content: "健身"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	record, err := scores.GetDay(userID, day)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	// round(1/2*35) = 18
	if record.PrioritiesScore != 18 {
		t.Fatalf("expected priorities score 18, got %d", record.PrioritiesScore)
	}

	if err := svc.Delete(userID, first.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	record, err = scores.GetDay(userID, day)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.PrioritiesScore != 0 {
		t.Fatalf("expected priorities score 0 after delete, got %d", record.PrioritiesScore)
	}
}

func TestPriorityValidation(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(db.DB)
	svc := NewPriorityService(db.DB, scores)

	day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.Local)

	if _, err := svc.Create(userID, day, PriorityInput{Content: "  "}); err == nil {
		t.Fatal("expected error for empty content")
	}
	if _, err := svc.Create(userID, day, PriorityInput{Content: "运动", Category: "social"}); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := svc.Update(userID, 9999, PriorityInput{Content: "任意"}); !errors.Is(err, ErrPriorityNotFound) {
		t.Fatalf("expected ErrPriorityNotFound, got %v", err)
	}
}
