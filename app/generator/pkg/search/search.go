package search

import (
	"context"
	"strings"
)

// Topic 搜索类别
const (
	TopicNews    = "news"
	TopicGeneral = "general"
)

// Searcher 搜索服务的统一接口，Tavily 与 SearXNG 各自实现
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 搜索请求
type Request struct {
	Query             string
	Topic             string
	MaxResults        int
	IncludeRawContent bool
	// StartDate / EndDate 格式 YYYY-MM-DD，为空表示不限
	StartDate string
	EndDate   string
}

// Response 搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}

// Merge 合并多次搜索的结果，按 URL 去重并保持首次出现的顺序
func Merge(responses ...*Response) []Result {
	seen := make(map[string]bool)
	var out []Result
	for _, resp := range responses {
		if resp == nil {
			continue
		}
		for _, r := range resp.Results {
			key := strings.TrimRight(strings.TrimSpace(r.URL), "/")
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, r)
		}
	}
	return out
}
