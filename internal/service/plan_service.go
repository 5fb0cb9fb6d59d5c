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
	// ErrPlanItemNotFound 在指定计划条目不存在时返回
	ErrPlanItemNotFound = errors.New("plan item not found")
	// ErrInvalidDayOfWeek 当 DayOfWeek 不在 1-7 时返回
	ErrInvalidDayOfWeek = errors.New("day of week must be between 1 and 7")
)

// WeeklyPlanService 负责周计划条目与"计划转待办"同步
// 同步幂等：已同步条目在后续同步中跳过
type WeeklyPlanService struct {
	db     *gorm.DB
	scores *ScoreService
}

// PlanItemInput 定义创建/更新计划条目时可配置字段
type PlanItemInput struct {
	DayOfWeek int
	Content   string
	Category  string
	TimeOfDay string
}

// NewWeeklyPlanService 构造 WeeklyPlanService
func NewWeeklyPlanService(gdb *gorm.DB, scores *ScoreService) *WeeklyPlanService {
	return &WeeklyPlanService{db: gdb, scores: scores}
}

// WeekStart 把任意日期规整到所在周的周一
func WeekStart(t time.Time) time.Time {
	normalized := normalizeToDate(t)
	weekday := int(normalized.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return normalized.AddDate(0, 0, -weekday+1)
}

// ListWeek 返回某周的全部计划条目，按星期和创建顺序
func (s *WeeklyPlanService) ListWeek(userID uint, weekStart time.Time) ([]db.WeeklyPlanItem, error) {
	var items []db.WeeklyPlanItem
	if err := s.db.Where("user_id = ? AND week_start = ?", userID, WeekStart(weekStart)).
		Order("day_of_week ASC, created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list plan items: %w", err)
	}
	return items, nil
}

// Create 新建计划条目
func (s *WeeklyPlanService) Create(userID uint, weekStart time.Time, input PlanItemInput) (*db.WeeklyPlanItem, error) {
	if err := validatePlanItemInput(input); err != nil {
		return nil, err
	}

	item := db.WeeklyPlanItem{
		UserID:    userID,
		WeekStart: WeekStart(weekStart),
		DayOfWeek: input.DayOfWeek,
		Content:   strings.TrimSpace(input.Content),
		Category:  strings.TrimSpace(strings.ToLower(input.Category)),
		TimeOfDay: strings.TrimSpace(strings.ToLower(input.TimeOfDay)),
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create plan item: %w", err)
	}
	return &item, nil
}

// Update 更新计划条目；已同步的条目修改后需重新同步才会反映到待办
func (s *WeeklyPlanService) Update(userID, id uint, input PlanItemInput) (*db.WeeklyPlanItem, error) {
	if err := validatePlanItemInput(input); err != nil {
		return nil, err
	}

	var existing db.WeeklyPlanItem
	if err := s.db.Where("user_id = ?", userID).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanItemNotFound
		}
		return nil, fmt.Errorf("find plan item: %w", err)
	}

	existing.DayOfWeek = input.DayOfWeek
	existing.Content = strings.TrimSpace(input.Content)
	existing.Category = strings.TrimSpace(strings.ToLower(input.Category))
	existing.TimeOfDay = strings.TrimSpace(strings.ToLower(input.TimeOfDay))

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update plan item: %w", err)
	}
	return &existing, nil
}

// Delete 删除计划条目，已生成的待办保留
func (s *WeeklyPlanService) Delete(userID, id uint) error {
	var existing db.WeeklyPlanItem
	if err := s.db.Where("user_id = ?", userID).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanItemNotFound
		}
		return fmt.Errorf("find plan item: %w", err)
	}

	if err := s.db.Delete(&existing).Error; err != nil {
		return fmt.Errorf("delete plan item: %w", err)
	}
	return nil
}

// SyncWeek 把某周未同步的计划条目物化为对应日期的待办并标记已同步。
// 受影响的每一天都会触发得分重算。返回本次生成的待办数量。
func (s *WeeklyPlanService) SyncWeek(userID uint, weekStart time.Time) (int, error) {
	start := WeekStart(weekStart)

	var items []db.WeeklyPlanItem
	if err := s.db.Where("user_id = ? AND week_start = ? AND synced = ?", userID, start, false).
		Find(&items).Error; err != nil {
		return 0, fmt.Errorf("load unsynced plan items: %w", err)
	}

	created := 0
	affectedDays := make(map[time.Time]struct{})

	for i := range items {
		item := &items[i]
		day := start.AddDate(0, 0, item.DayOfWeek-1)
		planItemID := item.ID

		todo := db.Todo{
			UserID:     userID,
			Day:        day,
			Content:    item.Content,
			Category:   item.Category,
			TimeOfDay:  item.TimeOfDay,
			PlanItemID: &planItemID,
		}

		if err := s.db.Create(&todo).Error; err != nil {
			return created, fmt.Errorf("create todo from plan item: %w", err)
		}

		item.Synced = true
		if err := s.db.Save(item).Error; err != nil {
			return created, fmt.Errorf("mark plan item synced: %w", err)
		}

		created++
		affectedDays[day] = struct{}{}
	}

	for day := range affectedDays {
		if _, err := s.scores.Recompute(userID, day); err != nil {
			return created, err
		}
	}

	return created, nil
}

func validatePlanItemInput(input PlanItemInput) error {
	if input.DayOfWeek < 1 || input.DayOfWeek > 7 {
		return ErrInvalidDayOfWeek
	}
	if strings.TrimSpace(input.Content) == "" {
		return fmt.Errorf("plan item content is required")
	}
	if err := validateOptionalCategory(input.Category); err != nil {
		return err
	}
	return validateTimeOfDay(input.TimeOfDay)
}
