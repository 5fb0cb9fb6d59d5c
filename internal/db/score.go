package db

import (
	"time"

	"gorm.io/gorm"
)

// ScoringWeights 是每用户单例的权重配置，三项之和必须恰好为 100
// 首次读取时若不存在则以默认值 40/35/25 懒创建
type ScoringWeights struct {
	gorm.Model
	UserID     uint `gorm:"uniqueIndex"`
	User       User `gorm:"constraint:OnDelete:CASCADE"`
	Habits     int  `gorm:"default:40"`
	Priorities int  `gorm:"default:35"`
	Todos      int  `gorm:"default:25"`
}

// DailyScore 是某用户某日打分结果的持久化快照
// 它是纯函数结果的缓存而非事实来源：当日任何习惯/优先事项/待办变更后整条覆写
type DailyScore struct {
	gorm.Model
	UserID          uint      `gorm:"index;index:idx_daily_score_unique,unique"`
	User            User      `gorm:"constraint:OnDelete:CASCADE"`
	Day             time.Time `gorm:"index:idx_daily_score_unique,unique"`
	Overall         int
	Grade           string
	HabitsScore     int
	PrioritiesScore int
	TodosScore      int
	PhysicalScore   int
	MentalScore     int
	SpiritualScore  int
	MorningScore    int
	AfternoonScore  int
	EveningScore    int
}

// TableName 重写确保唯一索引作用到 user_id + day
func (DailyScore) TableName() string {
	return "daily_scores"
}
