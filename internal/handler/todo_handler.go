package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/service"
)

type todoPayload struct {
	Content   string `json:"content"`
	Category  string `json:"category"`
	TimeOfDay string `json:"time_of_day"`
	Done      bool   `json:"done"`
}

// ListTodos 返回某日待办
func (a *API) ListTodos(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	todos, err := a.todos.ListForDay(userID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取待办失败")
		return
	}

	items := make([]gin.H, 0, len(todos))
	for _, todo := range todos {
		items = append(items, todoToPayload(todo))
	}

	c.JSON(http.StatusOK, gin.H{"todos": items})
}

// CreateTodo 新建某日待办
func (a *API) CreateTodo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	var payload todoPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	todo, err := a.todos.Create(userID, day, service.TodoInput{
		Content:   payload.Content,
		Category:  payload.Category,
		TimeOfDay: payload.TimeOfDay,
		Done:      payload.Done,
	})
	if err != nil {
		handleTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todoToPayload(*todo)})
}

// UpdateTodo 更新待办（含勾选完成）
func (a *API) UpdateTodo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的待办ID")
		return
	}

	var payload todoPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	todo, err := a.todos.Update(userID, id, service.TodoInput{
		Content:   payload.Content,
		Category:  payload.Category,
		TimeOfDay: payload.TimeOfDay,
		Done:      payload.Done,
	})
	if err != nil {
		handleTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todoToPayload(*todo)})
}

// DeleteTodo 删除待办
func (a *API) DeleteTodo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的待办ID")
		return
	}

	if err := a.todos.Delete(userID, id); err != nil {
		handleTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func todoToPayload(todo db.Todo) gin.H {
	item := gin.H{
		"id":          todo.ID,
		"day":         todo.Day.Format(dateFormat),
		"content":     todo.Content,
		"category":    todo.Category,
		"time_of_day": todo.TimeOfDay,
		"done":        todo.Done,
	}
	if todo.PlanItemID != nil {
		item["plan_item_id"] = *todo.PlanItemID
	}
	return item
}

func handleTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		respondError(c, http.StatusNotFound, "待办不存在")
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusBadRequest, "分类无效")
	case errors.Is(err, service.ErrInvalidTimeOfDay):
		respondError(c, http.StatusBadRequest, "时段无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
