package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifetrack/internal/db"
	"github.com/lifetrack/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type reflectionPayload struct {
	Content string `json:"content"`
}

// GetReflection 返回某日复盘，含净化后的渲染 HTML
func (a *API) GetReflection(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	reflection, err := a.reflections.Get(userID, day)
	if err != nil {
		if errors.Is(err, service.ErrReflectionNotFound) {
			respondError(c, http.StatusNotFound, "当日没有复盘记录")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取复盘失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reflection": reflectionToPayload(*reflection)})
}

// UpsertReflection 写入某日复盘：存在则覆写
func (a *API) UpsertReflection(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	day, ok := parseDateQuery(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	var payload reflectionPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	reflection, err := a.reflections.Upsert(userID, day, payload.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存复盘失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reflection": reflectionToPayload(*reflection)})
}

func reflectionToPayload(reflection db.Reflection) gin.H {
	return gin.H{
		"day":      reflection.Day.Format(dateFormat),
		"content":  reflection.Content,
		"rendered": renderMarkdown(reflection.Content),
	}
}

// renderMarkdown 把 Markdown 渲染为净化后的 HTML，渲染失败时退回原文
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return sanitizer.Sanitize(content)
	}
	return sanitizer.Sanitize(buf.String())
}
