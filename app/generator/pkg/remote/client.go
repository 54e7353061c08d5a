package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/config"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/logger"
	dm "github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
)

const submitPath = "/submit-analysis"

// RequestIDHeader 每次提交携带的请求标识
const RequestIDHeader = "X-Request-ID"

// Client 外部报告生成服务的客户端，响应体原样返回
type Client struct {
	conn *http.Client
}

// NewClient 连接 cfg.Endpoint；非 2xx 响应由 kratos 默认错误解码器转为错误
func NewClient(ctx context.Context, cfg config.RemoteConfig) (*Client, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	conn, err := http.NewClient(ctx,
		http.WithEndpoint(cfg.Endpoint),
		http.WithTimeout(timeout),
		http.WithMiddleware(requestID()),
		http.WithResponseDecoder(decodeRaw),
	)
	if err != nil {
		return nil, fmt.Errorf("create generator client: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Generate 提交表单并返回原始报告载荷。非 JSON 响应包装成 JSON 字符串，按旧版文本处理。
func (c *Client) Generate(ctx context.Context, form *dm.Form) (json.RawMessage, error) {
	var raw json.RawMessage
	start := time.Now()
	if err := c.conn.Invoke(ctx, nethttp.MethodPost, submitPath, form.Submission(), &raw); err != nil {
		return nil, fmt.Errorf("submit analysis: %w", err)
	}
	logger.Log.Infof("外部生成服务返回 %d 字节，耗时 %s", len(raw), time.Since(start).Round(time.Millisecond))
	return raw, nil
}

// Close 释放底层连接
func (c *Client) Close() error {
	return c.conn.Close()
}

func requestID() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if tr, ok := transport.FromClientContext(ctx); ok {
				tr.RequestHeader().Set(RequestIDHeader, uuid.NewString())
			}
			return handler(ctx, req)
		}
	}
}

func decodeRaw(_ context.Context, res *nethttp.Response, out interface{}) error {
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fmt.Errorf("empty response body")
	}
	if !json.Valid(body) {
		if body, err = json.Marshal(string(body)); err != nil {
			return err
		}
	}
	raw, ok := out.(*json.RawMessage)
	if !ok {
		return json.Unmarshal(body, out)
	}
	*raw = append((*raw)[:0], body...)
	return nil
}
