package db

import (
	"time"

	"gorm.io/gorm"
)

// Reflection 是某用户某日的 Markdown 复盘日记
// User + Day 采用唯一索引，每天一篇，重复提交覆写内容
type Reflection struct {
	gorm.Model
	UserID  uint      `gorm:"index;index:idx_reflection_unique,unique"`
	User    User      `gorm:"constraint:OnDelete:CASCADE"`
	Day     time.Time `gorm:"index:idx_reflection_unique,unique"`
	Content string
}

// TableName 重写确保唯一索引作用到 user_id + day
func (Reflection) TableName() string {
	return "reflections"
}
