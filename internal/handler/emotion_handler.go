package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/service"
	"github.com/breezie/breezie/internal/service/emotion"
)

// EmotionHandler 情绪处理器
type EmotionHandler struct {
	svc *service.Services
}

// NewEmotionHandler 创建情绪处理器
func NewEmotionHandler(svc *service.Services) *EmotionHandler {
	return &EmotionHandler{svc: svc}
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

// Classify 闭集情绪分类
func (h *EmotionHandler) Classify(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Emotion.Classify(c.Request.Context(), req.Text)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Suggest 开集情绪候选建议
func (h *EmotionHandler) Suggest(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	candidates, err := h.svc.Emotion.Suggest(c.Request.Context(), req.Text)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// SaveSession 保存一条情绪会话
func (h *EmotionHandler) SaveSession(c *gin.Context) {
	var req emotion.SaveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.svc.Emotion.SaveSession(c.Request.Context(), getUserID(c), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}
