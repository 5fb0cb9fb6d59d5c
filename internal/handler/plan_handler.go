package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/service"
)

type planItemPayload struct {
	DayOfWeek int    `json:"day_of_week"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	TimeOfDay string `json:"time_of_day"`
}

// parseWeekQuery 解析 week 查询参数并规整到周一，缺省为本周
func parseWeekQuery(c *gin.Context) (time.Time, bool) {
	day, ok := parseDateQuery(c, "week")
	if !ok {
		return time.Time{}, false
	}
	return service.WeekStart(day), true
}

// ListPlanItems 返回某周的计划条目
func (a *API) ListPlanItems(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	week, ok := parseWeekQuery(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的周起始日期")
		return
	}

	items, err := a.plans.ListWeek(userID, week)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取周计划失败")
		return
	}

	payload := make([]gin.H, 0, len(items))
	for _, item := range items {
		payload = append(payload, planItemToPayload(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start": week.Format(dateFormat),
		"items":      payload,
	})
}

// CreatePlanItem 新建计划条目
func (a *API) CreatePlanItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	week, ok := parseWeekQuery(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的周起始日期")
		return
	}

	var payload planItemPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.plans.Create(userID, week, service.PlanItemInput{
		DayOfWeek: payload.DayOfWeek,
		Content:   payload.Content,
		Category:  payload.Category,
		TimeOfDay: payload.TimeOfDay,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": planItemToPayload(*item)})
}

// UpdatePlanItem 更新计划条目
func (a *API) UpdatePlanItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划条目ID")
		return
	}

	var payload planItemPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	item, err := a.plans.Update(userID, id, service.PlanItemInput{
		DayOfWeek: payload.DayOfWeek,
		Content:   payload.Content,
		Category:  payload.Category,
		TimeOfDay: payload.TimeOfDay,
	})
	if err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": planItemToPayload(*item)})
}

// DeletePlanItem 删除计划条目
func (a *API) DeletePlanItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划条目ID")
		return
	}

	if err := a.plans.Delete(userID, id); err != nil {
		handlePlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// SyncPlanWeek 把某周计划条目物化为当日待办
func (a *API) SyncPlanWeek(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	week, ok := parseWeekQuery(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的周起始日期")
		return
	}

	created, err := a.plans.SyncWeek(userID, week)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "同步周计划失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"week_start": week.Format(dateFormat),
		"created":    created,
	})
}

func planItemToPayload(item db.WeeklyPlanItem) gin.H {
	return gin.H{
		"id":          item.ID,
		"week_start":  item.WeekStart.Format(dateFormat),
		"day_of_week": item.DayOfWeek,
		"content":     item.Content,
		"category":    item.Category,
		"time_of_day": item.TimeOfDay,
		"synced":      item.Synced,
	}
}

func handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanItemNotFound):
		respondError(c, http.StatusNotFound, "计划条目不存在")
	case errors.Is(err, service.ErrInvalidDayOfWeek):
		respondError(c, http.StatusBadRequest, "星期取值应为 1-7")
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusBadRequest, "分类无效")
	case errors.Is(err, service.ErrInvalidTimeOfDay):
		respondError(c, http.StatusBadRequest, "时段无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
