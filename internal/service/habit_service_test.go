package service

import (
	"errors"
	"testing"
	"time"

	"github.com/lifetrack/internal/db"
)

func TestHabitServiceCreateAndList(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewHabitService(db.DB, NewScoreService(db.DB))

	habit, err := svc.Create(userID, HabitInput{
		Name:      "晨跑",
		Category:  "physical",
		TimeOfDay: "morning",
		Active:    true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if habit.ID == 0 {
		t.Fatal("expected habit to have ID")
	}

	habits, err := svc.List(userID, HabitFilter{Category: "physical"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}

	// 不合法分类
	if _, err := svc.Create(userID, HabitInput{Name: "阅读", Category: "social"}); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	// 不合法时段
	if _, err := svc.Create(userID, HabitInput{Name: "阅读", Category: "mental", TimeOfDay: "midnight"}); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Fatalf("expected ErrInvalidTimeOfDay, got %v", err)
	}
}

func TestHabitServiceScopedByUser(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	other := db.User{Username: "other", Password: "hashed", ShareToken: "other-token"}
	if err := db.DB.Create(&other).Error; err != nil {
		t.Fatalf("failed to seed second user: %v", err)
	}

	svc := NewHabitService(db.DB, NewScoreService(db.DB))
	habit, err := svc.Create(userID, HabitInput{Name: "冥想", Category: "spiritual", Active: true})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(other.ID, habit.ID); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound for cross-user access, got %v", err)
	}
}

func TestHabitCompletionUpsertIdempotent(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(db.DB)
	habits := NewHabitService(db.DB, scores)
	completions := NewHabitCompletionService(db.DB, scores)

	habit, err := habits.Create(userID, HabitInput{Name: "写日记", Category: "mental", Active: true})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	day := time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local)

	first, err := completions.SetStatus(userID, habit.ID, day, "checked")
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}

	// 同日重复写入更新状态而非新增记录
	second, err := completions.SetStatus(userID, habit.ID, day, "missed")
	if err != nil {
		t.Fatalf("SetStatus update returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same completion record, got %d and %d", first.ID, second.ID)
	}
	if second.Status != "missed" {
		t.Fatalf("expected status missed, got %s", second.Status)
	}

	list, err := completions.ListForDay(userID, day)
	if err != nil {
		t.Fatalf("ListForDay returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 completion, got %d", len(list))
	}

	// 不合法状态
	if _, err := completions.SetStatus(userID, habit.ID, day, "half"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestBadHabitScoredByAvoidance(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(db.DB)
	habits := NewHabitService(db.DB, scores)
	completions := NewHabitCompletionService(db.DB, scores)

	habit, err := habits.Create(userID, HabitInput{Name: "刷短视频", Category: "mental", IsBad: true, Active: true})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	day := time.Date(2025, 5, 2, 0, 0, 0, 0, time.Local)

	// 回避成功：missed 记满分
	if _, err := completions.SetStatus(userID, habit.ID, day, "missed"); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	record, err := scores.GetDay(userID, day)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 40 {
		t.Fatalf("expected habits score 40 for avoided bad habit, got %d", record.HabitsScore)
	}

	// 破戒：checked 记零分
	if _, err := completions.SetStatus(userID, habit.ID, day, "checked"); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	record, err = scores.GetDay(userID, day)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 0 {
		t.Fatalf("expected habits score 0 for indulged bad habit, got %d", record.HabitsScore)
	}
}

func TestHabitDefinitionChangesRescoreToday(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(db.DB)
	habits := NewHabitService(db.DB, scores)
	completions := NewHabitCompletionService(db.DB, scores)

	today := time.Now().In(time.Local)

	first, err := habits.Create(userID, HabitInput{Name: "晨跑", Category: "physical", Active: true})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	if _, err := completions.SetStatus(userID, first.ID, today, "checked"); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}

	record, err := scores.GetDay(userID, today)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 40 {
		t.Fatalf("expected habits score 40, got %d", record.HabitsScore)
	}

	// 新增启用习惯扩大分母，缓存得分必须立即跟上
	second, err := habits.Create(userID, HabitInput{Name: "阅读", Category: "mental", Active: true})
	if err != nil {
		t.Fatalf("failed to create second habit: %v", err)
	}
	record, err = scores.GetDay(userID, today)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 20 {
		t.Fatalf("expected habits score 20 after adding habit, got %d", record.HabitsScore)
	}

	// 停用后该习惯退出打分
	if _, err := habits.Update(userID, second.ID, HabitInput{Name: "阅读", Category: "mental", Active: false}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	record, err = scores.GetDay(userID, today)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 40 {
		t.Fatalf("expected habits score 40 after deactivation, got %d", record.HabitsScore)
	}

	// 删除最后一个参与打分的习惯后回到空集零分
	if err := habits.Delete(userID, first.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	record, err = scores.GetDay(userID, today)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 0 || record.Overall != 0 {
		t.Fatalf("expected zero score after deleting habit, got habits=%d overall=%d", record.HabitsScore, record.Overall)
	}
}

func TestClearCompletionRescoresDay(t *testing.T) {
	userID, cleanup := setupServiceTestDB(t)
	defer cleanup()

	scores := NewScoreService(db.DB)
	habits := NewHabitService(db.DB, scores)
	completions := NewHabitCompletionService(db.DB, scores)

	habit, err := habits.Create(userID, HabitInput{Name: "早睡", Category: "physical", Active: true})
	if err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}

	day := time.Date(2025, 5, 3, 0, 0, 0, 0, time.Local)
	if _, err := completions.SetStatus(userID, habit.ID, day, "checked"); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}

	record, err := scores.GetDay(userID, day)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 40 {
		t.Fatalf("expected habits score 40, got %d", record.HabitsScore)
	}

	if err := completions.Clear(userID, habit.ID, day); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	record, err = scores.GetDay(userID, day)
	if err != nil {
		t.Fatalf("GetDay returned error: %v", err)
	}
	if record.HabitsScore != 0 {
		t.Fatalf("expected habits score 0 after clear, got %d", record.HabitsScore)
	}
}
