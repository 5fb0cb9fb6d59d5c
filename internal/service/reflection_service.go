package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifetrack/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReflectionNotFound 在指定日期没有复盘记录时返回
var ErrReflectionNotFound = errors.New("reflection not found")

// ReflectionService 负责每日复盘日记的读写
// 每用户每天一篇，重复提交覆写；Markdown 渲染在 handler 层完成
type ReflectionService struct {
	db *gorm.DB
}

// NewReflectionService 构造 ReflectionService
func NewReflectionService(gdb *gorm.DB) *ReflectionService {
	return &ReflectionService{db: gdb}
}

// Get 返回用户某日的复盘
func (s *ReflectionService) Get(userID uint, day time.Time) (*db.Reflection, error) {
	var reflection db.Reflection
	if err := s.db.Where("user_id = ? AND day = ?", userID, normalizeToDate(day)).
		First(&reflection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReflectionNotFound
		}
		return nil, fmt.Errorf("get reflection: %w", err)
	}
	return &reflection, nil
}

// Upsert 写入某日复盘：存在则覆写内容，否则创建
func (s *ReflectionService) Upsert(userID uint, day time.Time, content string) (*db.Reflection, error) {
	normalized := normalizeToDate(day)
	record := db.Reflection{
		UserID:  userID,
		Day:     normalized,
		Content: strings.TrimSpace(content),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert reflection: %w", err)
	}

	if err := s.db.Where("user_id = ? AND day = ?", userID, normalized).First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload reflection: %w", err)
	}

	return &record, nil
}
