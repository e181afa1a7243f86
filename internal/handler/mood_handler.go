package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/service"
	"github.com/breezie/breezie/internal/service/mood"
)

// MoodHandler 心情记录处理器
type MoodHandler struct {
	svc *service.Services
}

// NewMoodHandler 创建心情记录处理器
func NewMoodHandler(svc *service.Services) *MoodHandler {
	return &MoodHandler{svc: svc}
}

// Create 记录一次心情打卡
func (h *MoodHandler) Create(c *gin.Context) {
	var req mood.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	moodLog, err := h.svc.Mood.Create(c.Request.Context(), getUserID(c), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mood": moodLog})
}

// List 按时间倒序列出当前用户的心情记录
func (h *MoodHandler) List(c *gin.Context) {
	logs, err := h.svc.Mood.List(c.Request.Context(), getUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"moods": logs})
}
