package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/service"
)

type goalPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TargetDate  string `json:"target_date"`
	Status      string `json:"status"`
}

type milestonePayload struct {
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
	Done    bool   `json:"done"`
}

// ListGoals 返回目标列表，可按状态筛选
func (a *API) ListGoals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goals, err := a.goals.List(userID, c.Query("status"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取目标列表失败")
		return
	}

	items := make([]gin.H, 0, len(goals))
	for _, goal := range goals {
		items = append(items, goalToPayload(goal))
	}

	c.JSON(http.StatusOK, gin.H{"goals": items})
}

// GetGoal 返回单个目标及其里程碑
func (a *API) GetGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	goal, err := a.goals.Get(userID, id)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// CreateGoal 创建目标
func (a *API) CreateGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input, ok := parseGoalInput(c)
	if !ok {
		return
	}

	goal, err := a.goals.Create(userID, input)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// UpdateGoal 更新目标
func (a *API) UpdateGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	input, ok := parseGoalInput(c)
	if !ok {
		return
	}

	goal, err := a.goals.Update(userID, id, input)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// DeleteGoal 删除目标，里程碑级联清理
func (a *API) DeleteGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	if err := a.goals.Delete(userID, id); err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ArchiveGoal 归档目标
func (a *API) ArchiveGoal(c *gin.Context) {
	a.setGoalArchived(c, true)
}

// UnarchiveGoal 恢复已归档目标
func (a *API) UnarchiveGoal(c *gin.Context) {
	a.setGoalArchived(c, false)
}

func (a *API) setGoalArchived(c *gin.Context, archived bool) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	var goal *db.Goal
	if archived {
		goal, err = a.goals.Archive(userID, id)
	} else {
		goal, err = a.goals.Unarchive(userID, id)
	}
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalToPayload(*goal)})
}

// AddMilestone 为目标新增里程碑
func (a *API) AddMilestone(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goalID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	input, ok := parseMilestoneInput(c)
	if !ok {
		return
	}

	milestone, err := a.goals.AddMilestone(userID, goalID, input)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestone": milestoneToPayload(*milestone)})
}

// UpdateMilestone 更新里程碑（含勾选完成）
func (a *API) UpdateMilestone(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goalID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	milestoneID, err := parseUintParam(c, "milestoneId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的里程碑ID")
		return
	}

	input, ok := parseMilestoneInput(c)
	if !ok {
		return
	}

	milestone, err := a.goals.UpdateMilestone(userID, goalID, milestoneID, input)
	if err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestone": milestoneToPayload(*milestone)})
}

// DeleteMilestone 删除里程碑
func (a *API) DeleteMilestone(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	goalID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的目标ID")
		return
	}

	milestoneID, err := parseUintParam(c, "milestoneId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的里程碑ID")
		return
	}

	if err := a.goals.DeleteMilestone(userID, goalID, milestoneID); err != nil {
		handleGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func parseGoalInput(c *gin.Context) (service.GoalInput, bool) {
	var payload goalPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return service.GoalInput{}, false
	}

	targetDate, ok := parseOptionalDate(payload.TargetDate)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的目标日期")
		return service.GoalInput{}, false
	}

	return service.GoalInput{
		Title:       payload.Title,
		Description: payload.Description,
		Category:    payload.Category,
		TargetDate:  targetDate,
		Status:      payload.Status,
	}, true
}

func parseMilestoneInput(c *gin.Context) (service.MilestoneInput, bool) {
	var payload milestonePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return service.MilestoneInput{}, false
	}

	dueDate, ok := parseOptionalDate(payload.DueDate)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的截止日期")
		return service.MilestoneInput{}, false
	}

	return service.MilestoneInput{
		Title:   payload.Title,
		DueDate: dueDate,
		Done:    payload.Done,
	}, true
}

func goalToPayload(goal db.Goal) gin.H {
	item := gin.H{
		"id":          goal.ID,
		"title":       goal.Title,
		"description": goal.Description,
		"category":    goal.Category,
		"status":      goal.Status,
	}

	if goal.TargetDate != nil {
		item["target_date"] = goal.TargetDate.Format(dateFormat)
	}

	milestones := make([]gin.H, 0, len(goal.Milestones))
	for _, milestone := range goal.Milestones {
		milestones = append(milestones, milestoneToPayload(milestone))
	}
	item["milestones"] = milestones

	return item
}

func milestoneToPayload(milestone db.Milestone) gin.H {
	item := gin.H{
		"id":      milestone.ID,
		"goal_id": milestone.GoalID,
		"title":   milestone.Title,
		"done":    milestone.Done,
	}
	if milestone.DueDate != nil {
		item["due_date"] = milestone.DueDate.Format(dateFormat)
	}
	return item
}

func handleGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGoalNotFound):
		respondError(c, http.StatusNotFound, "目标不存在")
	case errors.Is(err, service.ErrMilestoneNotFound):
		respondError(c, http.StatusNotFound, "里程碑不存在")
	case errors.Is(err, service.ErrInvalidGoalStatus):
		respondError(c, http.StatusBadRequest, "目标状态无效")
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusBadRequest, "分类无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
