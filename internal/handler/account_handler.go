package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/breezie/breezie/internal/service"
	"github.com/breezie/breezie/internal/service/account"
)

// AccountHandler 账户处理器
type AccountHandler struct {
	svc *service.Services
}

// NewAccountHandler 创建账户处理器
func NewAccountHandler(svc *service.Services) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// GetProfile 获取当前用户资料
func (h *AccountHandler) GetProfile(c *gin.Context) {
	profile, err := h.svc.Account.GetProfile(c.Request.Context(), getUserID(c), getEmail(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile 更新当前用户资料
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req account.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.Account.UpdateProfile(c.Request.Context(), getUserID(c), &req); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// GetSettings 获取当前用户设置
func (h *AccountHandler) GetSettings(c *gin.Context) {
	settings, err := h.svc.Account.GetSettings(c.Request.Context(), getUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings 更新当前用户设置
func (h *AccountHandler) UpdateSettings(c *gin.Context) {
	var req account.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.Account.UpdateSettings(c.Request.Context(), getUserID(c), &req); err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// Export 导出当前用户全部数据，以 JSON 附件下载
func (h *AccountHandler) Export(c *gin.Context) {
	payload, err := h.svc.Account.Export(c.Request.Context(), getUserID(c))
	if err != nil {
		errorResponse(c, err)
		return
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="export.json"`)
	c.Data(http.StatusOK, "application/json", data)
}
