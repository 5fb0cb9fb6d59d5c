package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/lifetrack/internal/config"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/service"
)

// 生成最近两周的演示数据：习惯、优先事项、待办与每日得分
func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	if err := db.EnsureUser("demo", "demo123"); err != nil {
		log.Fatal("创建演示用户失败:", err)
	}

	var user db.User
	if err := db.DB.Where("username = ?", "demo").First(&user).Error; err != nil {
		log.Fatal("查找演示用户失败:", err)
	}

	scores := service.NewScoreService(db.DB)
	habits := service.NewHabitService(db.DB, scores)
	completions := service.NewHabitCompletionService(db.DB, scores)
	priorities := service.NewPriorityService(db.DB, scores)
	todos := service.NewTodoService(db.DB, scores)

	seedHabits := []service.HabitInput{
		{Name: "晨跑", Category: "physical", TimeOfDay: "morning", Active: true},
		{Name: "冥想", Category: "spiritual", TimeOfDay: "morning", Active: true},
		{Name: "阅读 30 分钟", Category: "mental", TimeOfDay: "evening", Active: true},
		{Name: "刷短视频", Category: "mental", IsBad: true, Active: true},
	}

	var habitIDs []uint
	for _, input := range seedHabits {
		habit, err := habits.Create(user.ID, input)
		if err != nil {
			log.Fatal("创建习惯失败:", err)
		}
		habitIDs = append(habitIDs, habit.ID)
	}

	now := time.Now().In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for offset := 13; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)

		for _, habitID := range habitIDs {
			status := "checked"
			if rand.Intn(10) < 3 {
				status = "missed"
			}
			if _, err := completions.SetStatus(user.ID, habitID, day, status); err != nil {
				log.Fatal("写入打卡失败:", err)
			}
		}

		for i := 0; i < 3; i++ {
			input := service.PriorityInput{
				Content:   fmt.Sprintf("第 %d 优先事项", i+1),
				Completed: rand.Intn(10) < 7,
			}
			if _, err := priorities.Create(user.ID, day, input); err != nil {
				log.Fatal("创建优先事项失败:", err)
			}
		}

		for i := 0; i < 4; i++ {
			input := service.TodoInput{
				Content: fmt.Sprintf("待办 %d", i+1),
				Done:    rand.Intn(10) < 6,
			}
			if _, err := todos.Create(user.ID, day, input); err != nil {
				log.Fatal("创建待办失败:", err)
			}
		}
	}

	fmt.Println("演示数据生成完毕")
}
