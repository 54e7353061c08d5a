package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 生成器运行模式
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// Config 生成器配置
type Config struct {
	Mode        string            `yaml:"mode"`
	Remote      RemoteConfig      `yaml:"remote"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// RemoteConfig 外部报告生成服务
type RemoteConfig struct {
	Endpoint string `yaml:"endpoint"`
	// Timeout 单位秒，报告生成通常需要数分钟
	Timeout int `yaml:"timeout"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
	// Workers 同时处理的维度数
	Workers int `yaml:"workers"`
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLocal
	}
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = 600
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = 60
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = 1
	}
	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = 3
	}
}

// Validate 检查当前模式所需的配置项
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRemote:
		if c.Remote.Endpoint == "" {
			return fmt.Errorf("remote.endpoint is required in remote mode")
		}
	case ModeLocal:
		if c.LLM.Model == "" {
			return fmt.Errorf("llm.model is required in local mode")
		}
	default:
		return fmt.Errorf("unknown generator mode: %s", c.Mode)
	}
	return nil
}

// Normalize 补齐默认值并校验，供非文件来源（如服务配置转换）使用
func (c *Config) Normalize() error {
	c.applyDefaults()
	return c.Validate()
}
