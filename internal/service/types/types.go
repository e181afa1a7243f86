// Package types 定义服务层共享的类型与错误
// 独立成包以避免服务子包之间的循环导入
package types

import "errors"

// 服务层错误分类，handler 据此映射 HTTP 状态码
var (
	// ErrInvalidInput 请求体缺失或字段非法 -> 400
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized 未解析出已认证用户 -> 401
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotConfigured 必需的凭证未配置 -> 503
	ErrNotConfigured = errors.New("service not configured")
	// ErrUpstream 第三方调用失败或返回非成功状态 -> 500
	ErrUpstream = errors.New("upstream error")
)

// ChatMessage 一条角色消息，按顺序构成对话历史
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}
