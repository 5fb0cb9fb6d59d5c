package db

import (
	"time"

	"gorm.io/gorm"
)

// Goal 定义了长期目标
// Status 取 active/completed/archived，归档与恢复走独立操作
type Goal struct {
	gorm.Model
	UserID      uint   `gorm:"index"`
	User        User   `gorm:"constraint:OnDelete:CASCADE"`
	Title       string `gorm:"not null"`
	Description string
	Category    string
	TargetDate  *time.Time
	Status      string `gorm:"default:active;index"`
	Milestones  []Milestone
}

// Milestone 是目标下的里程碑节点，删除目标时级联删除
type Milestone struct {
	gorm.Model
	GoalID  uint   `gorm:"index"`
	Goal    Goal   `gorm:"constraint:OnDelete:CASCADE"`
	Title   string `gorm:"not null"`
	DueDate *time.Time
	Done    bool
}
