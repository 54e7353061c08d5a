package conf

type Bootstrap struct {
	Server    *Server    `json:"server"`
	Data      *Data      `json:"data"`
	Auth      *Auth      `json:"auth"`
	Log       *Log       `json:"log"`
	Generator *Generator `json:"generator"`
}

type Auth struct {
	JwtKey string `json:"jwt_key"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Data struct {
	Database *Database `json:"database"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Generator 报告生成器配置，mode 为 local 或 remote
type Generator struct {
	Mode        string       `json:"mode"`
	Remote      *Remote      `json:"remote"`
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Concurrency *Concurrency `json:"concurrency"`
}

type Remote struct {
	Endpoint string `json:"endpoint"`
	Timeout  int32  `json:"timeout"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Search struct {
	Provider string   `json:"provider"`
	Tavily   *Tavily  `json:"tavily"`
	Searxng  *SearXNG `json:"searxng"`
}

type Tavily struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Concurrency struct {
	Qps     int32 `json:"qps"`
	Rpm     int32 `json:"rpm"`
	Workers int32 `json:"workers"`
}
