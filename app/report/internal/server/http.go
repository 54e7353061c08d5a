package server

import (
	"errors"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/auth/jwt"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/iWorld-y/pestel_radar/app/report/internal/conf"
	"github.com/iWorld-y/pestel_radar/app/report/internal/service"
)

// ErrMissingJwtKey 未配置令牌签名密钥
var ErrMissingJwtKey = errors.New("auth.jwt_key is required")

func NewHTTPServer(c *conf.Server, auth *conf.Auth, s *service.ReportService, logger log.Logger) (*http.Server, error) {
	if auth == nil || strings.TrimSpace(auth.JwtKey) == "" {
		return nil, ErrMissingJwtKey
	}
	jwtKey := auth.JwtKey

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
			jwt.Server(func(*jwtv5.Token) (interface{}, error) {
				return []byte(jwtKey), nil
			}, jwt.WithSigningMethod(jwtv5.SigningMethodHS256)),
		),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	service.RegisterReportHTTPServer(srv, s)
	return srv, nil
}
