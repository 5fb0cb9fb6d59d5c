package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/service"
)

type priorityPayload struct {
	Content   string `json:"content"`
	Category  string `json:"category"`
	TimeOfDay string `json:"time_of_day"`
	Completed bool   `json:"completed"`
}

// ListPriorities 返回某日优先事项
func (a *API) ListPriorities(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	priorities, err := a.priorities.ListForDay(userID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取优先事项失败")
		return
	}

	items := make([]gin.H, 0, len(priorities))
	for _, priority := range priorities {
		items = append(items, priorityToPayload(priority))
	}

	c.JSON(http.StatusOK, gin.H{"priorities": items})
}

// CreatePriority 新建某日优先事项，超出每日 5 条上限时拒绝
func (a *API) CreatePriority(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	var payload priorityPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	priority, err := a.priorities.Create(userID, day, service.PriorityInput{
		Content:   payload.Content,
		Category:  payload.Category,
		TimeOfDay: payload.TimeOfDay,
		Completed: payload.Completed,
	})
	if err != nil {
		handlePriorityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"priority": priorityToPayload(*priority)})
}

// UpdatePriority 更新优先事项（含勾选完成）
func (a *API) UpdatePriority(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的优先事项ID")
		return
	}

	var payload priorityPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	priority, err := a.priorities.Update(userID, id, service.PriorityInput{
		Content:   payload.Content,
		Category:  payload.Category,
		TimeOfDay: payload.TimeOfDay,
		Completed: payload.Completed,
	})
	if err != nil {
		handlePriorityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"priority": priorityToPayload(*priority)})
}

// DeletePriority 删除优先事项
func (a *API) DeletePriority(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的优先事项ID")
		return
	}

	if err := a.priorities.Delete(userID, id); err != nil {
		handlePriorityError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func priorityToPayload(priority db.Priority) gin.H {
	return gin.H{
		"id":          priority.ID,
		"day":         priority.Day.Format(dateFormat),
		"content":     priority.Content,
		"category":    priority.Category,
		"time_of_day": priority.TimeOfDay,
		"completed":   priority.Completed,
	}
}

func handlePriorityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPriorityLimit):
		respondError(c, http.StatusBadRequest, "当日优先事项已达 5 条上限")
	case errors.Is(err, service.ErrPriorityNotFound):
		respondError(c, http.StatusNotFound, "优先事项不存在")
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusBadRequest, "分类无效")
	case errors.Is(err, service.ErrInvalidTimeOfDay):
		respondError(c, http.StatusBadRequest, "时段无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
