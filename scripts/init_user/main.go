package main

import (
	"fmt"
	"log"

	"github.com/lifetrack/internal/config"
	"github.com/lifetrack/internal/db"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	username := cfg.AdminUsername
	if username == "" {
		username = "admin"
	}
	password := cfg.AdminPassword
	if password == "" {
		password = "admin123" // 默认密码，首次登录后请修改
	}

	if err := db.EnsureUser(username, password); err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Printf("已创建用户 %s\n", username)
}
