// Package auth 校验前端签发的 JWT 身份令牌
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/breezie/breezie/internal/config"
	"github.com/breezie/breezie/internal/service/types"
)

// Identity 从令牌中解析出的调用者身份
type Identity struct {
	UserID string
	Email  string
}

// Service 身份认证服务
type Service struct {
	cfg config.AuthConfig
}

// NewService 创建认证服务
func NewService(cfg config.AuthConfig) *Service {
	return &Service{cfg: cfg}
}

// ValidateToken 校验 HS256 签名的 Bearer 令牌并提取身份
// sub 为用户 ID，email 为可选声明
func (s *Service) ValidateToken(tokenString string) (*Identity, error) {
	if s.cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: missing auth.jwtSecret", types.ErrNotConfigured)
	}
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", types.ErrUnauthorized)
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", types.ErrUnauthorized)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: token missing subject", types.ErrUnauthorized)
	}

	identity := &Identity{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}
