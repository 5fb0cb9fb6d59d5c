package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrHabitNotFound 在指定习惯不存在时返回
	ErrHabitNotFound = errors.New("habit not found")
	// ErrInvalidCategory 当分类不在 physical/mental/spiritual 中时返回
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidTimeOfDay 当时段不在 morning/afternoon/evening 中时返回
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	// ErrInvalidStatus 当打卡状态不在 checked/missed 中时返回
	ErrInvalidStatus = errors.New("invalid completion status")
)

// HabitService 负责习惯定义的增删改查
// 打分只统计 Active 的习惯，停用而非删除可保留历史打卡。
// 定义变更会改变当日打分的分母，因此增删改后同样触发今日重算
type HabitService struct {
	db     *gorm.DB
	scores *ScoreService
}

// HabitFilter 描述习惯列表过滤条件
type HabitFilter struct {
	Category   string
	OnlyActive bool
	Search     string
}

// HabitInput 定义创建/更新习惯时可配置字段
type HabitInput struct {
	Name      string
	Category  string
	TimeOfDay string
	IsBad     bool
	Active    bool
}

// NewHabitService 构造 HabitService
func NewHabitService(gdb *gorm.DB, scores *ScoreService) *HabitService {
	return &HabitService{db: gdb, scores: scores}
}

// List 返回用户的习惯集合，支持基本筛选
func (s *HabitService) List(userID uint, filter HabitFilter) ([]db.Habit, error) {
	var habits []db.Habit

	query := s.db.Model(&db.Habit{}).Where("user_id = ?", userID)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OnlyActive {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.TrimSpace(filter.Search))
		query = query.Where("name LIKE ?", like)
	}

	if err := query.Order("created_at DESC").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	return habits, nil
}

// Get 根据 ID 获取习惯，跨用户访问视同不存在
func (s *HabitService) Get(userID, id uint) (*db.Habit, error) {
	var habit db.Habit
	if err := s.db.Where("user_id = ?", userID).First(&habit, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return &habit, nil
}

// Create 新建习惯
func (s *HabitService) Create(userID uint, input HabitInput) (*db.Habit, error) {
	if err := validateHabitInput(input); err != nil {
		return nil, err
	}

	habit := db.Habit{
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(strings.ToLower(input.Category)),
		TimeOfDay: strings.TrimSpace(strings.ToLower(input.TimeOfDay)),
		IsBad:     input.IsBad,
		Active:    input.Active,
	}

	if err := s.db.Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}

	if _, err := s.scores.Recompute(userID, time.Now().In(time.Local)); err != nil {
		return nil, err
	}
	return &habit, nil
}

// Update 更新习惯
func (s *HabitService) Update(userID, id uint, input HabitInput) (*db.Habit, error) {
	if err := validateHabitInput(input); err != nil {
		return nil, err
	}

	existing, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Category = strings.TrimSpace(strings.ToLower(input.Category))
	existing.TimeOfDay = strings.TrimSpace(strings.ToLower(input.TimeOfDay))
	existing.IsBad = input.IsBad
	existing.Active = input.Active

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}

	if _, err := s.scores.Recompute(userID, time.Now().In(time.Local)); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除习惯，打卡记录由外键级联清理
func (s *HabitService) Delete(userID, id uint) error {
	if _, err := s.Get(userID, id); err != nil {
		return err
	}
	if err := s.db.Delete(&db.Habit{}, id).Error; err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	_, err := s.scores.Recompute(userID, time.Now().In(time.Local))
	return err
}

func validateHabitInput(input HabitInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("habit name is required")
	}

	category := strings.TrimSpace(strings.ToLower(input.Category))
	if !slices.Contains(scoring.Categories, category) {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, input.Category)
	}

	return validateTimeOfDay(input.TimeOfDay)
}

// validateTimeOfDay 校验可选时段，空值合法
func validateTimeOfDay(timeOfDay string) error {
	trimmed := strings.TrimSpace(strings.ToLower(timeOfDay))
	if trimmed == "" {
		return nil
	}
	if !slices.Contains(scoring.TimesOfDay, trimmed) {
		return fmt.Errorf("%w: %s", ErrInvalidTimeOfDay, timeOfDay)
	}
	return nil
}

// validateOptionalCategory 校验可选分类，空值合法
func validateOptionalCategory(category string) error {
	trimmed := strings.TrimSpace(strings.ToLower(category))
	if trimmed == "" {
		return nil
	}
	if !slices.Contains(scoring.Categories, trimmed) {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}
	return nil
}

// HabitCompletionService 负责打卡状态的幂等写入与查询
// 任何成功写入都会触发当日得分重算
type HabitCompletionService struct {
	db     *gorm.DB
	scores *ScoreService
}

// NewHabitCompletionService 构造 HabitCompletionService
func NewHabitCompletionService(gdb *gorm.DB, scores *ScoreService) *HabitCompletionService {
	return &HabitCompletionService{db: gdb, scores: scores}
}

// SetStatus 写入某习惯某日的打卡状态：存在则更新，否则创建
func (s *HabitCompletionService) SetStatus(userID, habitID uint, day time.Time, status string) (*db.HabitCompletion, error) {
	status = strings.TrimSpace(strings.ToLower(status))
	if status != scoring.StatusChecked && status != scoring.StatusMissed {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var habit db.Habit
	if err := s.db.Where("user_id = ?", userID).First(&habit, habitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("find habit: %w", err)
	}

	normalized := normalizeToDate(day)
	record := db.HabitCompletion{
		HabitID: habitID,
		Day:     normalized,
		Status:  status,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "habit_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert habit completion: %w", err)
	}

	if err := s.db.Where("habit_id = ? AND day = ?", habitID, normalized).First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload habit completion: %w", err)
	}

	if _, err := s.scores.Recompute(userID, normalized); err != nil {
		return nil, err
	}

	return &record, nil
}

// Clear 删除某习惯某日的打卡记录并重算当日得分
func (s *HabitCompletionService) Clear(userID, habitID uint, day time.Time) error {
	var habit db.Habit
	if err := s.db.Where("user_id = ?", userID).First(&habit, habitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHabitNotFound
		}
		return fmt.Errorf("find habit: %w", err)
	}

	normalized := normalizeToDate(day)
	if err := s.db.Where("habit_id = ? AND day = ?", habitID, normalized).
		Delete(&db.HabitCompletion{}).Error; err != nil {
		return fmt.Errorf("delete habit completion: %w", err)
	}

	_, err := s.scores.Recompute(userID, normalized)
	return err
}

// ListForDay 返回用户当日全部打卡记录
func (s *HabitCompletionService) ListForDay(userID uint, day time.Time) ([]db.HabitCompletion, error) {
	var completions []db.HabitCompletion
	if err := s.db.
		Joins("JOIN habits ON habits.id = habit_completions.habit_id").
		Where("habits.user_id = ? AND habit_completions.day = ?", userID, normalizeToDate(day)).
		Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("list habit completions: %w", err)
	}
	return completions, nil
}
