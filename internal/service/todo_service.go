package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifetrack/internal/db"
	"gorm.io/gorm"
)

// ErrTodoNotFound 在指定待办不存在时返回
var ErrTodoNotFound = errors.New("todo not found")

// TodoService 负责当日待办的增删改查，无条数上限
type TodoService struct {
	db     *gorm.DB
	scores *ScoreService
}

// TodoInput 定义创建/更新待办时可配置字段
type TodoInput struct {
	Content   string
	Category  string
	TimeOfDay string
	Done      bool
}

// NewTodoService 构造 TodoService
func NewTodoService(gdb *gorm.DB, scores *ScoreService) *TodoService {
	return &TodoService{db: gdb, scores: scores}
}

// ListForDay 返回用户某日的待办，按创建顺序
func (s *TodoService) ListForDay(userID uint, day time.Time) ([]db.Todo, error) {
	var todos []db.Todo
	if err := s.db.Where("user_id = ? AND day = ?", userID, normalizeToDate(day)).
		Order("created_at ASC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Create 新建待办并重算当日得分
func (s *TodoService) Create(userID uint, day time.Time, input TodoInput) (*db.Todo, error) {
	if err := validateTodoInput(input); err != nil {
		return nil, err
	}

	normalized := normalizeToDate(day)
	todo := db.Todo{
		UserID:    userID,
		Day:       normalized,
		Content:   strings.TrimSpace(input.Content),
		Category:  strings.TrimSpace(strings.ToLower(input.Category)),
		TimeOfDay: strings.TrimSpace(strings.ToLower(input.TimeOfDay)),
		Done:      input.Done,
	}

	if err := s.db.Create(&todo).Error; err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	if _, err := s.scores.Recompute(userID, normalized); err != nil {
		return nil, err
	}

	return &todo, nil
}

// Update 更新待办并重算当日得分
func (s *TodoService) Update(userID, id uint, input TodoInput) (*db.Todo, error) {
	if err := validateTodoInput(input); err != nil {
		return nil, err
	}

	var existing db.Todo
	if err := s.db.Where("user_id = ?", userID).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}

	existing.Content = strings.TrimSpace(input.Content)
	existing.Category = strings.TrimSpace(strings.ToLower(input.Category))
	existing.TimeOfDay = strings.TrimSpace(strings.ToLower(input.TimeOfDay))
	existing.Done = input.Done

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if _, err := s.scores.Recompute(userID, existing.Day); err != nil {
		return nil, err
	}

	return &existing, nil
}

// Delete 删除待办并重算当日得分
func (s *TodoService) Delete(userID, id uint) error {
	var existing db.Todo
	if err := s.db.Where("user_id = ?", userID).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("find todo: %w", err)
	}

	if err := s.db.Delete(&existing).Error; err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	_, err := s.scores.Recompute(userID, existing.Day)
	return err
}

func validateTodoInput(input TodoInput) error {
	if strings.TrimSpace(input.Content) == "" {
		return fmt.Errorf("todo content is required")
	}
	if err := validateOptionalCategory(input.Category); err != nil {
		return err
	}
	return validateTimeOfDay(input.TimeOfDay)
}
