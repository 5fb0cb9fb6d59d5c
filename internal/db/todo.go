package db

import (
	"time"

	"gorm.io/gorm"
)

// Todo 定义了当日待办，无条数上限
// PlanItemID 记录由周计划同步生成的来源，便于重复同步时跳过
type Todo struct {
	gorm.Model
	UserID     uint      `gorm:"index;index:idx_todo_user_day"`
	User       User      `gorm:"constraint:OnDelete:CASCADE"`
	Day        time.Time `gorm:"index:idx_todo_user_day"`
	Content    string    `gorm:"not null"`
	Category   string
	TimeOfDay  string
	Done       bool
	PlanItemID *uint `gorm:"index"`
}
