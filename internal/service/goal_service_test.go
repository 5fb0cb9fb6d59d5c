package service

import (
	"errors"
	"testing"

	"github.com/lifetrack/internal/db"
)

func TestGoalLifecycle(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewGoalService(db.DB)

	goal, err := svc.Create(userID, GoalInput{Title: "跑完半马", Category: "physical"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if goal.Status != GoalStatusActive {
		t.Fatalf("expected default status active, got %s", goal.Status)
	}

	archived, err := svc.Archive(userID, goal.ID)
	if err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	if archived.Status != GoalStatusArchived {
		t.Fatalf("expected status archived, got %s", archived.Status)
	}

	active, err := svc.List(userID, GoalStatusActive)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active goals, got %d", len(active))
	}

	restored, err := svc.Unarchive(userID, goal.ID)
	if err != nil {
		t.Fatalf("Unarchive returned error: %v", err)
	}
	if restored.Status != GoalStatusActive {
		t.Fatalf("expected status active after unarchive, got %s", restored.Status)
	}

	if _, err := svc.Create(userID, GoalInput{Title: "读书", Status: "paused"}); !errors.Is(err, ErrInvalidGoalStatus) {
		t.Fatalf("expected ErrInvalidGoalStatus, got %v", err)
	}
}

func TestGoalMilestones(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewGoalService(db.DB)

	goal, err := svc.Create(userID, GoalInput{Title: "学会游泳"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	milestone, err := svc.AddMilestone(userID, goal.ID, MilestoneInput{Title: "报名课程"})
	if err != nil {
		t.Fatalf("AddMilestone returned error: %v", err)
	}

	updated, err := svc.UpdateMilestone(userID, goal.ID, milestone.ID, MilestoneInput{Title: "报名课程", Done: true})
	if err != nil {
		t.Fatalf("UpdateMilestone returned error: %v", err)
	}
	if !updated.Done {
		t.Fatal("expected milestone to be done")
	}

	loaded, err := svc.Get(userID, goal.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(loaded.Milestones) != 1 {
		t.Fatalf("expected 1 milestone, got %d", len(loaded.Milestones))
	}

	if err := svc.DeleteMilestone(userID, goal.ID, milestone.ID); err != nil {
		t.Fatalf("DeleteMilestone returned error: %v", err)
	}
	if _, err := svc.UpdateMilestone(userID, goal.ID, milestone.ID, MilestoneInput{Title: "任意"}); !errors.Is(err, ErrMilestoneNotFound) {
		t.Fatalf("expected ErrMilestoneNotFound, got %v", err)
	}
}
