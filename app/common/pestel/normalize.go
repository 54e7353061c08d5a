package pestel

import (
	"bytes"
	"encoding/json"
)

// Normalize 将任意历史形态的报告载荷归一为 CanonicalReport。
// 第二个返回值为 false 表示没有载荷（nil、空输入或 JSON null）。
// 无法识别的载荷返回所有段落均缺失的报告，而不是错误。
func Normalize(payload any) (*CanonicalReport, bool) {
	switch t := payload.(type) {
	case nil:
		return nil, false
	case json.RawMessage:
		return NormalizeJSON(t)
	case []byte:
		return NormalizeJSON(t)
	case string:
		// 整份载荷被序列化成字符串时先还原
		if c := Coerce(t); c.Kind == Parsed {
			return Normalize(c.Object)
		}
	}

	c := Classify(payload)
	r := &CanonicalReport{Shape: c.Shape}
	if c.Shape.Has(ShapeFinal) {
		extractCross(r, c.Final)
	}
	if c.Shape.Has(ShapeUnified) {
		extractCross(r, c.Unified)
	}
	if c.Shape.Has(ShapeIndividualReports) {
		extractIndividual(r, c.Individual)
	}
	if c.Shape.Has(ShapeLegacyText) {
		if !extractLegacy(r, c.Legacy) {
			keepOpaque(r, c.Legacy)
		}
	}
	extractNews(r, c.News)
	return r, true
}

// NormalizeJSON 归一化原始 JSON 字节；不是合法 JSON 时按旧版文本处理
func NormalizeJSON(data []byte) (*CanonicalReport, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}
	v, ok := decodeStrict(data)
	if !ok {
		return Normalize(string(data))
	}
	if v == nil {
		return nil, false
	}
	return Normalize(v)
}
