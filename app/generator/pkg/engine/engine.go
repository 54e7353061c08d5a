package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/pestel_radar/app/common/pestel"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/config"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/logger"
	dm "github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/search"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/search/factory"
)

const (
	maxQueriesPerDimension  = 5
	maxArticlesPerDimension = 6
	maxArticleChars         = 5000
	minArticleChars         = 100
	// 搜索摘要短于该长度时抓取原文
	fetchThreshold = 500
	maxRetries     = 3
)

// ErrNoFactors 表单中没有任何勾选的因素
var ErrNoFactors = errors.New("no pestel factors selected")

// Engine 本地 PESTEL 报告生成引擎：逐维度检索并调用 LLM，再合成跨维度报告
type Engine struct {
	cfg        *config.Config
	chatModel  model.BaseChatModel
	searcher   search.Searcher
	limiter    *rate.Limiter
	fetch      func(url string) (string, error)
	now        func() time.Time
	retryDelay time.Duration
}

// Option 引擎选项
type Option func(*Engine)

// WithFetcher 替换正文抓取函数
func WithFetcher(fetch func(url string) (string, error)) Option {
	return func(e *Engine) { e.fetch = fetch }
}

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRetryDelay 设置 429 重试的基础等待时间
func WithRetryDelay(d time.Duration) Option {
	return func(e *Engine) { e.retryDelay = d }
}

// NewEngine 按配置初始化 LLM 与搜索客户端
func NewEngine(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	searcher, err := factory.NewSearcher(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	return New(cfg, chatModel, searcher, opts...), nil
}

// New 使用给定的模型与搜索实现创建引擎
func New(cfg *config.Config, cm model.BaseChatModel, searcher search.Searcher, opts ...Option) *Engine {
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	e := &Engine{
		cfg:        cfg,
		chatModel:  cm,
		searcher:   searcher,
		limiter:    rate.NewLimiter(limit, max(cfg.Concurrency.QPS, 1)),
		fetch:      fetchAndCleanContent,
		now:        time.Now,
		retryDelay: 2 * time.Second,
	}
	for _, o := range opts {
		o(e)
	}
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, e.limiter.Burst())
	return e
}

// Generate 生成一份报告载荷：{success, individual_reports, report, news, timestamp}。
// 单个维度失败只记录日志并跳过；跨维度合成失败时载荷不含 report。
func (e *Engine) Generate(ctx context.Context, form *dm.Form) (json.RawMessage, error) {
	var dims []pestel.Dimension
	for _, d := range pestel.Dimensions {
		if len(form.Factors(d).Selected()) > 0 {
			dims = append(dims, d)
		}
	}
	if len(dims) == 0 {
		return nil, ErrNoFactors
	}
	logger.Log.Infof("开始为 [%s] 生成 PESTEL 报告，包含 %d 个维度", form.BusinessName, len(dims))

	var (
		mu      sync.Mutex
		reports = make(map[string]map[string]any, len(dims))
		news    = make(map[string][]dm.NewsItem, pestel.DimensionCount)
	)
	for _, d := range pestel.Dimensions {
		news[d.NewsKey()] = []dm.NewsItem{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Concurrency.Workers, 1))
	for _, d := range dims {
		g.Go(func() error {
			report, items, err := e.dimensionReport(gctx, d, form)
			if err != nil {
				logger.Log.Errorf("生成维度报告失败 [%s]: %v", d, err)
				return nil
			}
			mu.Lock()
			reports[d.ReportKey()] = report
			news[d.NewsKey()] = items
			mu.Unlock()
			logger.Log.Infof("维度报告完成 [%s]，引用 %d 篇文章", d, len(items))
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("no dimension report generated")
	}

	out := map[string]any{
		"success":            true,
		"individual_reports": reports,
		"news":               news,
		"timestamp":          e.now().Format(time.RFC3339),
	}
	final, err := e.finalReport(ctx, form, reports)
	if err != nil {
		logger.Log.Errorf("跨维度报告生成失败: %v", err)
	} else {
		out["report"] = final
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return b, nil
}

func (e *Engine) dimensionReport(ctx context.Context, d pestel.Dimension, form *dm.Form) (map[string]any, []dm.NewsItem, error) {
	sel := form.Factors(d)
	factors := sel.Selected()

	now := e.now()
	var responses []*search.Response
	for _, q := range buildQueries(form, factors) {
		resp, err := e.searcher.Search(ctx, &search.Request{
			Query:      q,
			Topic:      search.TopicNews,
			MaxResults: 5,
			StartDate:  now.AddDate(0, -1, 0).Format(time.DateOnly),
			EndDate:    now.Format(time.DateOnly),
		})
		if err != nil {
			logger.Log.Warnf("搜索失败 [%s] %q: %v", d, q, err)
			continue
		}
		responses = append(responses, resp)
	}

	articles := e.collectArticles(d, search.Merge(responses...))
	if len(articles) == 0 {
		return nil, nil, fmt.Errorf("维度 [%s] 未找到有效文章", d)
	}

	var titles []string
	for _, f := range factors {
		titles = append(titles, "- "+dm.FactorTitle(f))
	}
	notes := sel.Notes
	if notes == "" {
		notes = "None."
	}
	prompt := fmt.Sprintf(dimensionPromptTpl,
		d.String(), form.Describe(), strings.Join(titles, "\n"), notes, additionalNotes(form), formatArticles(articles))

	report, err := e.generateJSON(ctx, prompt)
	if err != nil {
		return nil, nil, err
	}
	report["report_type"] = d.String()

	items := make([]dm.NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, dm.NewsItem{Title: a.Title, URL: a.Link})
	}
	return report, items, nil
}

func (e *Engine) finalReport(ctx context.Context, form *dm.Form, reports map[string]map[string]any) (map[string]any, error) {
	var sb strings.Builder
	for _, d := range pestel.Dimensions {
		r, ok := reports[d.ReportKey()]
		if !ok {
			fmt.Fprintf(&sb, "- %s Report: Not available\n", d)
			continue
		}
		b, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "- %s Report: %s\n", d, b)
	}
	return e.generateJSON(ctx, fmt.Sprintf(finalPromptTpl, form.Describe(), additionalNotes(form), sb.String()))
}

// collectArticles 摘要过短时抓取原文，截断过长内容，最多保留 6 篇
func (e *Engine) collectArticles(d pestel.Dimension, results []search.Result) []dm.Article {
	var articles []dm.Article
	for _, item := range results {
		content := item.Content
		if len(content) < fetchThreshold && e.fetch != nil {
			fetched, err := e.fetch(item.URL)
			if err != nil {
				logger.Log.Debugf("抓取正文失败 %s: %v", item.URL, err)
			} else if len(fetched) > len(content) {
				content = fetched
			}
		}
		content = truncate(content, maxArticleChars)
		if len(content) <= minArticleChars {
			continue
		}
		articles = append(articles, dm.Article{
			Title:   item.Title,
			Link:    item.URL,
			Source:  d.String(),
			PubDate: item.PublishedDate,
			Content: content,
		})
		if len(articles) >= maxArticlesPerDimension {
			break
		}
	}
	return articles
}

// generateJSON 调用 LLM 并解析 JSON 对象；429 时指数退避，解析失败时重新生成
func (e *Engine) generateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	messages := []*schema.Message{
		schema.SystemMessage(jsonSystemPrompt),
		schema.UserMessage(prompt),
	}

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := e.chatModel.Generate(ctx, messages)
		if err != nil {
			if !isRateLimited(err) {
				return nil, err
			}
			lastErr = err
			if i < maxRetries {
				if err := sleep(ctx, e.retryDelay*time.Duration(1<<i)); err != nil {
					return nil, err
				}
			}
			continue
		}

		obj, err := decodeObject(resp.Content)
		if err != nil {
			logger.Log.Warnf("LLM 输出不是合法 JSON (第 %d 次): %v", i+1, err)
			lastErr = err
			continue
		}
		return obj, nil
	}
	return nil, fmt.Errorf("failed after retries: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// decodeObject 去掉 ```json 代码块标记后解析为对象
func decodeObject(content string) (map[string]any, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(clean)), &obj); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("json unmarshal: not an object")
	}
	return obj, nil
}

// buildQueries 每个勾选因素一条查询：因素 + 行业 + 地区
func buildQueries(form *dm.Form, factors []string) []string {
	var out []string
	for _, f := range factors {
		q := strings.Join(strings.Fields(strings.Join([]string{
			dm.FactorTitle(f), form.Industry, form.GeographicalFocus,
		}, " ")), " ")
		out = append(out, q)
		if len(out) >= maxQueriesPerDimension {
			break
		}
	}
	return out
}

func formatArticles(articles []dm.Article) string {
	var sb strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&sb, "Article %d:\nTitle: %s\nURL: %s\nContent: %s\n\n", i+1, a.Title, a.Link, a.Content)
	}
	return sb.String()
}

func additionalNotes(form *dm.Form) string {
	if form.AdditionalNotes == "" {
		return "No additional notes provided."
	}
	return form.AdditionalNotes
}

func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, 30*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// truncate 截断到不超过 n 字节，切点回退到 UTF-8 字符边界
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
