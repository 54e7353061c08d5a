package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/config"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/generator"
	"github.com/iWorld-y/pestel_radar/app/report/internal/conf"
)

// NewGenerator 按配置创建报告生成器；未配置时返回 nil，服务只接受外部提交的载荷
func NewGenerator(c *conf.Generator, logger log.Logger) (generator.Generator, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil {
		helper.Warn("generator is not configured, report generation is disabled")
		return nil, func() {}, nil
	}

	cfg := GeneratorConfig(c)
	if err := cfg.Normalize(); err != nil {
		helper.Errorf("invalid generator config: %v", err)
		return nil, nil, err
	}

	gen, cleanup, err := generator.New(context.Background(), cfg)
	if err != nil {
		helper.Errorf("failed to init generator: %v", err)
		return nil, nil, err
	}
	helper.Infof("report generator ready (mode=%s)", cfg.Mode)

	return gen, func() {
		helper.Info("closing the report generator")
		cleanup()
	}, nil
}

// GeneratorConfig 将服务配置转换为生成器配置，缺省的子项保持零值
func GeneratorConfig(c *conf.Generator) *config.Config {
	cfg := &config.Config{Mode: c.Mode}
	if c.Remote != nil {
		cfg.Remote = config.RemoteConfig{
			Endpoint: c.Remote.Endpoint,
			Timeout:  int(c.Remote.Timeout),
		}
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		}
	}
	if s := c.Search; s != nil {
		cfg.Search.Provider = s.Provider
		if s.Tavily != nil {
			cfg.Search.Tavily = config.TavilyConfig{APIKey: s.Tavily.ApiKey, BaseURL: s.Tavily.BaseUrl}
		}
		if s.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{BaseURL: s.Searxng.BaseUrl, Timeout: int(s.Searxng.Timeout)}
		}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS:     int(c.Concurrency.Qps),
			RPM:     int(c.Concurrency.Rpm),
			Workers: int(c.Concurrency.Workers),
		}
	}
	return cfg
}
