package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/service"
)

type habitPayload struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	TimeOfDay string `json:"time_of_day"`
	IsBad     bool   `json:"is_bad"`
	Active    *bool  `json:"active"`
}

type completionPayload struct {
	Day    string `json:"day"` // 2006-01-02，缺省为今天
	Status string `json:"status"`
}

// ListHabits 返回习惯列表 JSON
func (a *API) ListHabits(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	filter := service.HabitFilter{
		Category:   c.Query("category"),
		OnlyActive: c.Query("active") == "true",
		Search:     c.Query("search"),
	}

	habits, err := a.habits.List(userID, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取习惯列表失败")
		return
	}

	items := make([]gin.H, 0, len(habits))
	for _, habit := range habits {
		items = append(items, habitToPayload(habit))
	}

	c.JSON(http.StatusOK, gin.H{"habits": items})
}

// GetHabit 返回单个习惯详情
func (a *API) GetHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	habit, err := a.habits.Get(userID, id)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// CreateHabit 创建习惯
func (a *API) CreateHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input, ok := parseHabitInput(c)
	if !ok {
		return
	}

	habit, err := a.habits.Create(userID, input)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// UpdateHabit 更新习惯
func (a *API) UpdateHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	input, ok := parseHabitInput(c)
	if !ok {
		return
	}

	habit, err := a.habits.Update(userID, id, input)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habitToPayload(*habit)})
}

// DeleteHabit 删除习惯，打卡记录级联清理
func (a *API) DeleteHabit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	if err := a.habits.Delete(userID, id); err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SetHabitCompletion 写入某日打卡状态并触发当日重算
func (a *API) SetHabitCompletion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	var payload completionPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	day := time.Now().In(time.Local)
	if payload.Day != "" {
		parsed, err := time.ParseInLocation(dateFormat, payload.Day, time.Local)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的打卡日期")
			return
		}
		day = parsed
	}

	completion, err := a.completions.SetStatus(userID, habitID, day, payload.Status)
	if err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completion": completionToPayload(*completion)})
}

// ClearHabitCompletion 删除某日打卡记录并触发当日重算
func (a *API) ClearHabitCompletion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	habitID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的习惯ID")
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	if err := a.completions.Clear(userID, habitID, day); err != nil {
		handleHabitError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// ListHabitCompletions 返回某日全部打卡记录
func (a *API) ListHabitCompletions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	completions, err := a.completions.ListForDay(userID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取打卡记录失败")
		return
	}

	items := make([]gin.H, 0, len(completions))
	for _, completion := range completions {
		items = append(items, completionToPayload(completion))
	}

	c.JSON(http.StatusOK, gin.H{"completions": items})
}

func parseHabitInput(c *gin.Context) (service.HabitInput, bool) {
	var payload habitPayload

	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return service.HabitInput{}, false
		}
	} else {
		payload.Name = c.PostForm("name")
		payload.Category = c.PostForm("category")
		payload.TimeOfDay = c.PostForm("time_of_day")
		payload.IsBad = c.PostForm("is_bad") == "true"
		if raw := c.PostForm("active"); raw != "" {
			active := raw == "true"
			payload.Active = &active
		}
	}

	// 未显式指定时默认启用
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	return service.HabitInput{
		Name:      payload.Name,
		Category:  payload.Category,
		TimeOfDay: payload.TimeOfDay,
		IsBad:     payload.IsBad,
		Active:    active,
	}, true
}

func habitToPayload(habit db.Habit) gin.H {
	return gin.H{
		"id":          habit.ID,
		"name":        habit.Name,
		"category":    habit.Category,
		"time_of_day": habit.TimeOfDay,
		"is_bad":      habit.IsBad,
		"active":      habit.Active,
	}
}

func completionToPayload(completion db.HabitCompletion) gin.H {
	return gin.H{
		"id":       completion.ID,
		"habit_id": completion.HabitID,
		"day":      completion.Day.Format(dateFormat),
		"status":   completion.Status,
	}
}

func handleHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHabitNotFound):
		respondError(c, http.StatusNotFound, "习惯不存在")
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusBadRequest, "分类无效")
	case errors.Is(err, service.ErrInvalidTimeOfDay):
		respondError(c, http.StatusBadRequest, "时段无效")
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "打卡状态无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
