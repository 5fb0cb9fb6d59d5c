package db

import (
	"time"

	"gorm.io/gorm"
)

// Habit 定义了习惯模型
// Category 取 physical/mental/spiritual，TimeOfDay 可选（morning/afternoon/evening）
// IsBad 标记回避型习惯：打分时极性反转，missed 记为成功
// Active 控制是否参与每日清单和打分
type Habit struct {
	gorm.Model
	UserID    uint   `gorm:"index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	Name      string `gorm:"not null"`
	Category  string `gorm:"index"`
	TimeOfDay string
	IsBad     bool
	Active    bool `gorm:"default:true"`
}

// HabitCompletion 记录某习惯某日的打卡状态
// Habit + Day 采用唯一索引，保证每天至多一条记录；Status 取 checked/missed
// 删除习惯时级联删除其打卡记录
type HabitCompletion struct {
	gorm.Model
	HabitID uint      `gorm:"index;index:idx_habit_completion_unique,unique"`
	Habit   Habit     `gorm:"constraint:OnDelete:CASCADE"`
	Day     time.Time `gorm:"index:idx_habit_completion_unique,unique"`
	Status  string
}

// TableName 重写确保唯一索引作用到 habit_id + day
func (HabitCompletion) TableName() string {
	return "habit_completions"
}
