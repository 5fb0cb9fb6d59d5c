package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifetrack/internal/db"
	"gorm.io/gorm"
)

const maxPrioritiesPerDay = 5

var (
	// ErrPriorityNotFound 在指定优先事项不存在时返回
	ErrPriorityNotFound = errors.New("priority not found")
	// ErrPriorityLimit 当某日优先事项已达 5 条上限时返回
	ErrPriorityLimit = errors.New("priority limit reached for this day")
)

// PriorityService 负责当日优先事项的增删改查
// 每日上限 5 条在写入前校验，超出直接拒绝而非截断
type PriorityService struct {
	db     *gorm.DB
	scores *ScoreService
}

// PriorityInput 定义创建/更新优先事项时可配置字段
type PriorityInput struct {
	Content   string
	Category  string
	TimeOfDay string
	Completed bool
}

// NewPriorityService 构造 PriorityService
func NewPriorityService(gdb *gorm.DB, scores *ScoreService) *PriorityService {
	return &PriorityService{db: gdb, scores: scores}
}

// ListForDay 返回用户某日的优先事项，按创建顺序
func (s *PriorityService) ListForDay(userID uint, day time.Time) ([]db.Priority, error) {
	var priorities []db.Priority
	if err := s.db.Where("user_id = ? AND day = ?", userID, normalizeToDate(day)).
		Order("created_at ASC").
		Find(&priorities).Error; err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	return priorities, nil
}

// Create 新建优先事项并重算当日得分；第 6 条起拒绝
func (s *PriorityService) Create(userID uint, day time.Time, input PriorityInput) (*db.Priority, error) {
	if err := validatePriorityInput(input); err != nil {
		return nil, err
	}

	normalized := normalizeToDate(day)

	var count int64
	if err := s.db.Model(&db.Priority{}).
		Where("user_id = ? AND day = ?", userID, normalized).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count priorities: %w", err)
	}
	if count >= maxPrioritiesPerDay {
		return nil, ErrPriorityLimit
	}

	priority := db.Priority{
		UserID:    userID,
		Day:       normalized,
		Content:   strings.TrimSpace(input.Content),
		Category:  strings.TrimSpace(strings.ToLower(input.Category)),
		TimeOfDay: strings.TrimSpace(strings.ToLower(input.TimeOfDay)),
		Completed: input.Completed,
	}

	if err := s.db.Create(&priority).Error; err != nil {
		return nil, fmt.Errorf("create priority: %w", err)
	}

	if _, err := s.scores.Recompute(userID, normalized); err != nil {
		return nil, err
	}

	return &priority, nil
}

// Update 更新优先事项并重算当日得分
func (s *PriorityService) Update(userID, id uint, input PriorityInput) (*db.Priority, error) {
	if err := validatePriorityInput(input); err != nil {
		return nil, err
	}

	var existing db.Priority
	if err := s.db.Where("user_id = ?", userID).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPriorityNotFound
		}
		return nil, fmt.Errorf("find priority: %w", err)
	}

	existing.Content = strings.TrimSpace(input.Content)
	existing.Category = strings.TrimSpace(strings.ToLower(input.Category))
	existing.TimeOfDay = strings.TrimSpace(strings.ToLower(input.TimeOfDay))
	existing.Completed = input.Completed

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update priority: %w", err)
	}

	if _, err := s.scores.Recompute(userID, existing.Day); err != nil {
		return nil, err
	}

	return &existing, nil
}

// Delete 删除优先事项并重算当日得分
func (s *PriorityService) Delete(userID, id uint) error {
	var existing db.Priority
	if err := s.db.Where("user_id = ?", userID).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPriorityNotFound
		}
		return fmt.Errorf("find priority: %w", err)
	}

	if err := s.db.Delete(&existing).Error; err != nil {
		return fmt.Errorf("delete priority: %w", err)
	}

	_, err := s.scores.Recompute(userID, existing.Day)
	return err
}

func validatePriorityInput(input PriorityInput) error {
	if strings.TrimSpace(input.Content) == "" {
		return fmt.Errorf("priority content is required")
	}
	if err := validateOptionalCategory(input.Category); err != nil {
		return err
	}
	return validateTimeOfDay(input.TimeOfDay)
}
