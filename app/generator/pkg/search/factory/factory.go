package factory

import (
	"fmt"

	"github.com/iWorld-y/pestel_radar/app/generator/pkg/config"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/search"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/searxng"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例；未指定 provider 但配置了 Tavily key 时使用 Tavily
func NewSearcher(cfg config.SearchConfig) (search.Searcher, error) {
	provider := cfg.Provider
	if provider == "" {
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("search provider not configured")
		}
		provider = "tavily"
	}

	switch provider {
	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Tavily.APIKey, tavily.WithBaseURL(cfg.Tavily.BaseURL)), nil

	case "searxng":
		if cfg.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNG.BaseURL, cfg.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
