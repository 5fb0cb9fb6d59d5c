package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidWeights 当权重三项之和不为 100 或存在负值时返回
var ErrInvalidWeights = errors.New("scoring weights must be non-negative and sum to 100")

// ScoreService 负责权重配置、每日得分的重算与查询
// 重算本身委托给 scoring 包的纯函数，这里只做快照装载和结果落库
type ScoreService struct {
	db *gorm.DB
}

// NewScoreService 构造 ScoreService
func NewScoreService(gdb *gorm.DB) *ScoreService {
	return &ScoreService{db: gdb}
}

// GetWeights 读取用户的权重配置，不存在时懒创建默认值 40/35/25
func (s *ScoreService) GetWeights(userID uint) (*db.ScoringWeights, error) {
	defaults := scoring.DefaultWeights()

	var weights db.ScoringWeights
	if err := s.db.Where(db.ScoringWeights{UserID: userID}).
		Attrs(db.ScoringWeights{
			Habits:     defaults.Habits,
			Priorities: defaults.Priorities,
			Todos:      defaults.Todos,
		}).
		FirstOrCreate(&weights).Error; err != nil {
		return nil, fmt.Errorf("get scoring weights: %w", err)
	}

	return &weights, nil
}

// UpdateWeights 更新权重配置；不合法的组合整体拒绝，不做截断或归一化
func (s *ScoreService) UpdateWeights(userID uint, input scoring.Weights) (*db.ScoringWeights, error) {
	if !input.Valid() {
		return nil, ErrInvalidWeights
	}

	weights, err := s.GetWeights(userID)
	if err != nil {
		return nil, err
	}

	weights.Habits = input.Habits
	weights.Priorities = input.Priorities
	weights.Todos = input.Todos

	if err := s.db.Save(weights).Error; err != nil {
		return nil, fmt.Errorf("update scoring weights: %w", err)
	}

	return weights, nil
}

// Recompute 装载某日快照、调用纯打分函数并覆写 DailyScore。
// 每次相关记录变更后都会触发，保证持久化得分与当前状态一致。
func (s *ScoreService) Recompute(userID uint, day time.Time) (*db.DailyScore, error) {
	normalized := normalizeToDate(day)

	snapshot, err := s.loadSnapshot(userID, normalized)
	if err != nil {
		return nil, err
	}

	result := scoring.Compute(snapshot)

	record := db.DailyScore{
		UserID:          userID,
		Day:             normalized,
		Overall:         result.Overall,
		Grade:           result.Grade,
		HabitsScore:     result.HabitsScore,
		PrioritiesScore: result.PrioritiesScore,
		TodosScore:      result.TodosScore,
		PhysicalScore:   result.Categories[scoring.CategoryPhysical],
		MentalScore:     result.Categories[scoring.CategoryMental],
		SpiritualScore:  result.Categories[scoring.CategorySpiritual],
		MorningScore:    result.TimesOfDay[scoring.TimeMorning],
		AfternoonScore:  result.TimesOfDay[scoring.TimeAfternoon],
		EveningScore:    result.TimesOfDay[scoring.TimeEvening],
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overall", "grade", "habits_score", "priorities_score", "todos_score",
			"physical_score", "mental_score", "spiritual_score",
			"morning_score", "afternoon_score", "evening_score", "updated_at",
		}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert daily score: %w", err)
	}

	if err := s.db.Where("user_id = ? AND day = ?", userID, normalized).First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload daily score: %w", err)
	}

	return &record, nil
}

// GetDay 返回某日得分；没有持久化记录时现场重算一条
func (s *ScoreService) GetDay(userID uint, day time.Time) (*db.DailyScore, error) {
	normalized := normalizeToDate(day)

	var record db.DailyScore
	err := s.db.Where("user_id = ? AND day = ?", userID, normalized).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get daily score: %w", err)
	}

	return s.Recompute(userID, normalized)
}

// Range 返回日期区间内的得分记录，按日期升序
func (s *ScoreService) Range(userID uint, start, end time.Time) ([]db.DailyScore, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end before start")
	}

	var records []db.DailyScore
	if err := s.db.Where("user_id = ?", userID).
		Where("day BETWEEN ? AND ?", normalizeToDate(start), normalizeToDate(end)).
		Order("day ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list daily scores: %w", err)
	}

	return records, nil
}

// Streaks 基于全部历史得分计算当前连胜与最长连胜
func (s *ScoreService) Streaks(userID uint, today time.Time) (current, longest int, err error) {
	var records []db.DailyScore
	if err := s.db.Where("user_id = ?", userID).
		Order("day DESC").
		Find(&records).Error; err != nil {
		return 0, 0, fmt.Errorf("load score history: %w", err)
	}

	history := make([]scoring.DayScore, 0, len(records))
	for _, record := range records {
		history = append(history, scoring.DayScore{Day: record.Day, Overall: record.Overall})
	}

	return scoring.CurrentStreak(normalizeToDate(today), history), scoring.LongestStreak(history), nil
}

// loadSnapshot 汇集某日参与打分的习惯打卡、优先事项和待办
func (s *ScoreService) loadSnapshot(userID uint, day time.Time) (scoring.Snapshot, error) {
	var habits []db.Habit
	if err := s.db.Where("user_id = ? AND active = ?", userID, true).Find(&habits).Error; err != nil {
		return scoring.Snapshot{}, fmt.Errorf("load habits: %w", err)
	}

	statusByHabit := make(map[uint]string)
	if len(habits) > 0 {
		habitIDs := make([]uint, 0, len(habits))
		for _, habit := range habits {
			habitIDs = append(habitIDs, habit.ID)
		}

		var completions []db.HabitCompletion
		if err := s.db.Where("habit_id IN ? AND day = ?", habitIDs, day).Find(&completions).Error; err != nil {
			return scoring.Snapshot{}, fmt.Errorf("load habit completions: %w", err)
		}
		for _, completion := range completions {
			statusByHabit[completion.HabitID] = completion.Status
		}
	}

	var priorities []db.Priority
	if err := s.db.Where("user_id = ? AND day = ?", userID, day).Find(&priorities).Error; err != nil {
		return scoring.Snapshot{}, fmt.Errorf("load priorities: %w", err)
	}

	var todos []db.Todo
	if err := s.db.Where("user_id = ? AND day = ?", userID, day).Find(&todos).Error; err != nil {
		return scoring.Snapshot{}, fmt.Errorf("load todos: %w", err)
	}

	weights, err := s.GetWeights(userID)
	if err != nil {
		return scoring.Snapshot{}, err
	}

	snapshot := scoring.Snapshot{
		Weights: scoring.Weights{
			Habits:     weights.Habits,
			Priorities: weights.Priorities,
			Todos:      weights.Todos,
		},
	}

	for _, habit := range habits {
		snapshot.Habits = append(snapshot.Habits, scoring.HabitItem{
			IsBad:     habit.IsBad,
			Status:    statusByHabit[habit.ID],
			Category:  habit.Category,
			TimeOfDay: habit.TimeOfDay,
		})
	}
	for _, priority := range priorities {
		snapshot.Priorities = append(snapshot.Priorities, scoring.ChecklistItem{
			Completed: priority.Completed,
			Category:  priority.Category,
			TimeOfDay: priority.TimeOfDay,
		})
	}
	for _, todo := range todos {
		snapshot.Todos = append(snapshot.Todos, scoring.ChecklistItem{
			Completed: todo.Done,
			Category:  todo.Category,
			TimeOfDay: todo.TimeOfDay,
		})
	}

	return snapshot, nil
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
