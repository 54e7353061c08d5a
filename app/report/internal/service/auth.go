package service

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware/auth/jwt"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// EmailClaim 令牌中标识用户的字段
const EmailClaim = "email"

// currentUser 从 JWT 中取出当前用户邮箱，表单与报告都按邮箱归属
func currentUser(ctx context.Context) (string, error) {
	claims, ok := jwt.FromContext(ctx)
	if !ok {
		return "", errors.Unauthorized("UNAUTHORIZED", "missing token")
	}
	mc, ok := claims.(jwtv5.MapClaims)
	if !ok {
		return "", errors.Unauthorized("UNAUTHORIZED", "unexpected token claims")
	}
	email, _ := mc[EmailClaim].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.Unauthorized("UNAUTHORIZED", "token has no email claim")
	}
	return email, nil
}
