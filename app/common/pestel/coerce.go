package pestel

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind 字段强制转换的结果类别
type Kind int

const (
	// Absent 字段缺失或为 null
	Absent Kind = iota
	// Parsed 字段是（或可解析为）结构化对象
	Parsed
	// Opaque 字段无法解析为对象，保留原文
	Opaque
)

// Coerced 一次强制转换的结果：Parsed 时 Object 有效，Opaque 时 Text 保存原始文本
type Coerced struct {
	Kind   Kind
	Object map[string]any
	Text   string
}

// Coerce 将"可能是对象、也可能是 JSON 字符串"的字段转换为对象。
// 对象原样返回；字符串严格按 JSON 解析，失败时作为不透明文本保留；null 返回 Absent。
func Coerce(v any) Coerced {
	switch t := v.(type) {
	case nil:
		return Coerced{Kind: Absent}
	case map[string]any:
		return Coerced{Kind: Parsed, Object: t}
	case json.RawMessage:
		return coerceBytes(t)
	case []byte:
		return coerceBytes(t)
	case string:
		if strings.TrimSpace(t) == "" {
			return Coerced{Kind: Absent}
		}
		parsed, ok := decodeStrict([]byte(t))
		if !ok {
			return Coerced{Kind: Opaque, Text: t}
		}
		if obj, ok := parsed.(map[string]any); ok {
			return Coerced{Kind: Parsed, Object: obj}
		}
		// 字符串里装的是 JSON 字符串时再剥一层
		if inner, ok := parsed.(string); ok {
			return Coerce(inner)
		}
		return Coerced{Kind: Opaque, Text: t}
	default:
		return Coerced{Kind: Opaque, Text: stringify(t)}
	}
}

func coerceBytes(b []byte) Coerced {
	parsed, ok := decodeStrict(b)
	if !ok {
		return Coerce(string(b))
	}
	return Coerce(parsed)
}

// decodeStrict 严格解析单个 JSON 文档，json.Unmarshal 拒绝文档之后的多余内容
func decodeStrict(b []byte) (any, bool) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return v, true
}

// coerceList 取数组字段；数组以 JSON 字符串形式出现时同样解析
func coerceList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case string:
		parsed, ok := decodeStrict([]byte(t))
		if !ok {
			return nil, false
		}
		list, ok := parsed.([]any)
		return list, ok
	default:
		return nil, false
	}
}

// textOf 将标量值转换为文本；对象和数组序列化为 JSON 文本以免丢失内容
func textOf(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(t), true
	default:
		return stringify(t), true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// stringsOf 将字符串数组（或单个字符串）转换为去除首尾空白的文本列表
func stringsOf(v any) ([]string, bool) {
	if v == nil {
		return nil, false
	}
	list, ok := coerceList(v)
	if !ok {
		if s, isText := v.(string); isText {
			return []string{strings.TrimSpace(s)}, true
		}
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := textOf(item); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, true
}
