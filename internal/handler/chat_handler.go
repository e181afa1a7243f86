package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/service"
	"github.com/breezie/breezie/internal/service/chat"
	"github.com/breezie/breezie/pkg/log"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建对话处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Chat 非流式对话，登录用户的往返会落库
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chat.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Chat.Reply(c.Request.Context(), getUserID(c), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// streamWriter 将模型 token 直写响应并逐段 flush
type streamWriter struct {
	c     *gin.Context
	wrote bool
}

func (w *streamWriter) WriteToken(token string) error {
	if _, err := w.c.Writer.WriteString(token); err != nil {
		return err
	}
	w.wrote = true
	w.c.Writer.Flush()
	return nil
}

// ChatStream 流式对话，按 text/plain 逐 token 转发
// 首字节写出后出错只能中断连接，无法再改写状态码
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req chat.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")

	w := &streamWriter{c: c}
	if err := h.svc.Chat.Stream(c.Request.Context(), &req, w); err != nil {
		if !w.wrote {
			errorResponse(c, err)
			return
		}
		log.Warnf("chat stream aborted after partial output: %v", err)
	}
}

// Conversations 列出当前用户的会话
func (h *ChatHandler) Conversations(c *gin.Context) {
	conversations, err := h.svc.Chat.ListConversations(c.Request.Context(), getUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}
