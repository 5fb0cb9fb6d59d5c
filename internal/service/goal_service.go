package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifetrack/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrGoalNotFound 在指定目标不存在时返回
	ErrGoalNotFound = errors.New("goal not found")
	// ErrMilestoneNotFound 在指定里程碑不存在时返回
	ErrMilestoneNotFound = errors.New("milestone not found")
	// ErrInvalidGoalStatus 当状态不在 active/completed/archived 中时返回
	ErrInvalidGoalStatus = errors.New("invalid goal status")
)

// 目标状态常量
const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusArchived  = "archived"
)

// GoalService 负责长期目标与里程碑的增删改查
// 目标不参与每日打分，归档走独立操作以便恢复
type GoalService struct {
	db *gorm.DB
}

// GoalInput 定义创建/更新目标时可配置字段
type GoalInput struct {
	Title       string
	Description string
	Category    string
	TargetDate  *time.Time
	Status      string
}

// MilestoneInput 定义创建/更新里程碑时可配置字段
type MilestoneInput struct {
	Title   string
	DueDate *time.Time
	Done    bool
}

// NewGoalService 构造 GoalService
func NewGoalService(gdb *gorm.DB) *GoalService {
	return &GoalService{db: gdb}
}

// List 返回用户的目标集合，可按状态筛选，预加载里程碑
func (s *GoalService) List(userID uint, status string) ([]db.Goal, error) {
	var goals []db.Goal

	query := s.db.Model(&db.Goal{}).Preload("Milestones").Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

// Get 根据 ID 获取目标及其里程碑
func (s *GoalService) Get(userID, id uint) (*db.Goal, error) {
	var goal db.Goal
	if err := s.db.Preload("Milestones").Where("user_id = ?", userID).First(&goal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return &goal, nil
}

// Create 新建目标
func (s *GoalService) Create(userID uint, input GoalInput) (*db.Goal, error) {
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}

	goal := db.Goal{
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(strings.ToLower(input.Category)),
		TargetDate:  input.TargetDate,
		Status:      normalizeGoalStatus(input.Status),
	}

	if err := s.db.Create(&goal).Error; err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return &goal, nil
}

// Update 更新目标
func (s *GoalService) Update(userID, id uint, input GoalInput) (*db.Goal, error) {
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}

	goal, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	goal.Title = strings.TrimSpace(input.Title)
	goal.Description = strings.TrimSpace(input.Description)
	goal.Category = strings.TrimSpace(strings.ToLower(input.Category))
	goal.TargetDate = input.TargetDate
	goal.Status = normalizeGoalStatus(input.Status)

	if err := s.db.Save(goal).Error; err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return goal, nil
}

// Delete 删除目标，里程碑由外键级联清理
func (s *GoalService) Delete(userID, id uint) error {
	if _, err := s.Get(userID, id); err != nil {
		return err
	}
	if err := s.db.Delete(&db.Goal{}, id).Error; err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// Archive 将目标置为 archived
func (s *GoalService) Archive(userID, id uint) (*db.Goal, error) {
	return s.setStatus(userID, id, GoalStatusArchived)
}

// Unarchive 将已归档目标恢复为 active
func (s *GoalService) Unarchive(userID, id uint) (*db.Goal, error) {
	return s.setStatus(userID, id, GoalStatusActive)
}

func (s *GoalService) setStatus(userID, id uint, status string) (*db.Goal, error) {
	goal, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	goal.Status = status
	if err := s.db.Save(goal).Error; err != nil {
		return nil, fmt.Errorf("update goal status: %w", err)
	}
	return goal, nil
}

// AddMilestone 为目标新增里程碑
func (s *GoalService) AddMilestone(userID, goalID uint, input MilestoneInput) (*db.Milestone, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("milestone title is required")
	}

	if _, err := s.Get(userID, goalID); err != nil {
		return nil, err
	}

	milestone := db.Milestone{
		GoalID:  goalID,
		Title:   strings.TrimSpace(input.Title),
		DueDate: input.DueDate,
		Done:    input.Done,
	}

	if err := s.db.Create(&milestone).Error; err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}
	return &milestone, nil
}

// UpdateMilestone 更新里程碑（含勾选完成）
func (s *GoalService) UpdateMilestone(userID, goalID, milestoneID uint, input MilestoneInput) (*db.Milestone, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("milestone title is required")
	}

	milestone, err := s.findMilestone(userID, goalID, milestoneID)
	if err != nil {
		return nil, err
	}

	milestone.Title = strings.TrimSpace(input.Title)
	milestone.DueDate = input.DueDate
	milestone.Done = input.Done

	if err := s.db.Save(milestone).Error; err != nil {
		return nil, fmt.Errorf("update milestone: %w", err)
	}
	return milestone, nil
}

// DeleteMilestone 删除里程碑
func (s *GoalService) DeleteMilestone(userID, goalID, milestoneID uint) error {
	milestone, err := s.findMilestone(userID, goalID, milestoneID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(milestone).Error; err != nil {
		return fmt.Errorf("delete milestone: %w", err)
	}
	return nil
}

func (s *GoalService) findMilestone(userID, goalID, milestoneID uint) (*db.Milestone, error) {
	if _, err := s.Get(userID, goalID); err != nil {
		return nil, err
	}

	var milestone db.Milestone
	if err := s.db.Where("goal_id = ?", goalID).First(&milestone, milestoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("find milestone: %w", err)
	}
	return &milestone, nil
}

func validateGoalInput(input GoalInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("goal title is required")
	}
	if err := validateOptionalCategory(input.Category); err != nil {
		return err
	}

	status := strings.TrimSpace(strings.ToLower(input.Status))
	if status != "" && status != GoalStatusActive && status != GoalStatusCompleted && status != GoalStatusArchived {
		return fmt.Errorf("%w: %s", ErrInvalidGoalStatus, input.Status)
	}
	return nil
}

func normalizeGoalStatus(status string) string {
	status = strings.TrimSpace(strings.ToLower(status))
	if status == "" {
		return GoalStatusActive
	}
	return status
}
