package db

import (
	"time"

	"gorm.io/gorm"
)

// Priority 定义了当日优先事项
// 每个用户每天至多 5 条，超出的创建请求在服务层拒绝
type Priority struct {
	gorm.Model
	UserID    uint      `gorm:"index;index:idx_priority_user_day"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Day       time.Time `gorm:"index:idx_priority_user_day"`
	Content   string    `gorm:"not null"`
	Category  string
	TimeOfDay string
	Completed bool
}
