package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/middleware"
	"github.com/breezie/breezie/internal/service/types"
)

// errorResponse 统一错误响应，按哨兵错误映射状态码
func errorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, types.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, types.ErrUpstream):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest 请求体解析失败响应
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func getUserID(c *gin.Context) string {
	return middleware.GetUserID(c)
}

func getEmail(c *gin.Context) string {
	return middleware.GetEmail(c)
}
