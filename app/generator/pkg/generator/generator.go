package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/config"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/engine"
	dm "github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/remote"
)

// Generator 根据表单生成报告载荷，返回值不做任何解析
type Generator interface {
	Generate(ctx context.Context, form *dm.Form) (json.RawMessage, error)
}

var (
	_ Generator = (*engine.Engine)(nil)
	_ Generator = (*remote.Client)(nil)
)

// New 按 cfg.Mode 创建本地引擎或远程客户端，返回的 cleanup 负责释放连接
func New(ctx context.Context, cfg *config.Config) (Generator, func(), error) {
	switch cfg.Mode {
	case config.ModeRemote:
		c, err := remote.NewClient(ctx, cfg.Remote)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	case config.ModeLocal:
		e, err := engine.NewEngine(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return e, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown generator mode: %s", cfg.Mode)
	}
}
