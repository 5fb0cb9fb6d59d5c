package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/scoring"
	"github.com/lifetrack/internal/service"
	"gorm.io/gorm"
)

type weightsPayload struct {
	Habits     int `json:"habits"`
	Priorities int `json:"priorities"`
	Todos      int `json:"todos"`
}

// GetScore 返回某日得分快照，缺省为今天
func (a *API) GetScore(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	record, err := a.scores.GetDay(userID, day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取得分失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": serializeDailyScore(record)})
}

// GetScoreRange 返回日期区间内的得分记录，用于趋势图
func (a *API) GetScoreRange(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	start, startOK := parseOptionalDate(c.Query("start"))
	end, endOK := parseOptionalDate(c.Query("end"))
	if !startOK || !endOK || start == nil || end == nil {
		respondError(c, http.StatusBadRequest, "请提供合法的 start 与 end 日期")
		return
	}

	records, err := a.scores.Range(userID, *start, *end)
	if err != nil {
		respondError(c, http.StatusBadRequest, "获取得分区间失败")
		return
	}

	items := make([]gin.H, 0, len(records))
	for i := range records {
		items = append(items, serializeDailyScore(&records[i]))
	}

	c.JSON(http.StatusOK, gin.H{"scores": items})
}

// GetWeights 返回权重配置，首次读取时创建默认值
func (a *API) GetWeights(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	weights, err := a.scores.GetWeights(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取权重失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"weights": serializeWeights(weights)})
}

// UpdateWeights 更新权重配置，三项之和必须为 100
func (a *API) UpdateWeights(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var payload weightsPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	weights, err := a.scores.UpdateWeights(userID, scoring.Weights{
		Habits:     payload.Habits,
		Priorities: payload.Priorities,
		Todos:      payload.Todos,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidWeights) {
			respondError(c, http.StatusBadRequest, "权重三项之和必须为 100")
			return
		}
		respondError(c, http.StatusInternalServerError, "更新权重失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"weights": serializeWeights(weights)})
}

// GetStreaks 返回当前连胜与最长连胜
func (a *API) GetStreaks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	current, longest, err := a.scores.Streaks(userID, time.Now().In(time.Local))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取连胜失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"current_streak": current, "longest_streak": longest})
}

// ShareScore 通过分享令牌公开只读的当日得分，无需登录
func (a *API) ShareScore(c *gin.Context) {
	token := c.Param("token")

	var user db.User
	if err := a.db.Where("share_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "分享链接无效")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取分享数据失败")
		return
	}

	record, err := a.scores.GetDay(user.ID, time.Now().In(time.Local))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取得分失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username": user.Username,
		"score":    serializeDailyScore(record),
	})
}

func serializeDailyScore(record *db.DailyScore) gin.H {
	return gin.H{
		"day":              record.Day.Format(dateFormat),
		"overall":          record.Overall,
		"grade":            record.Grade,
		"habits_score":     record.HabitsScore,
		"priorities_score": record.PrioritiesScore,
		"todos_score":      record.TodosScore,
		"categories": gin.H{
			"physical":  record.PhysicalScore,
			"mental":    record.MentalScore,
			"spiritual": record.SpiritualScore,
		},
		"times_of_day": gin.H{
			"morning":   record.MorningScore,
			"afternoon": record.AfternoonScore,
			"evening":   record.EveningScore,
		},
	}
}

func serializeWeights(weights *db.ScoringWeights) gin.H {
	return gin.H{
		"habits":     weights.Habits,
		"priorities": weights.Priorities,
		"todos":      weights.Todos,
	}
}
