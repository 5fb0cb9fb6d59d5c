package db

import (
	"time"

	"gorm.io/gorm"
)

// WeeklyPlanItem 定义了周计划条目
// WeekStart 为该周周一的日期，DayOfWeek 取 1-7（周一为 1）
// Synced 标记是否已同步生成当日待办，同步操作幂等
type WeeklyPlanItem struct {
	gorm.Model
	UserID    uint      `gorm:"index;index:idx_plan_user_week"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	WeekStart time.Time `gorm:"index:idx_plan_user_week"`
	DayOfWeek int
	Content   string `gorm:"not null"`
	Category  string
	TimeOfDay string
	Synced    bool
}
