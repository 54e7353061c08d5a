package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/pestel_radar/app/common/pestel"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/logger"
)

var (
	flagin     string
	flagformat string
	flagblocks bool
)

func init() {
	flag.StringVar(&flagin, "in", "-", "payload file, - for stdin")
	flag.StringVar(&flagformat, "format", "yaml", "output format: yaml or json")
	flag.BoolVar(&flagblocks, "blocks", false, "render text sections into Markdown-lite blocks")
}

type section struct {
	pestel.Section `yaml:",inline"`
	Blocks         []pestel.Block `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

type output struct {
	Shape    pestel.Shape            `json:"shape" yaml:"shape"`
	Sections []section               `json:"sections" yaml:"sections"`
	Report   *pestel.CanonicalReport `json:"report" yaml:"report"`
}

func main() {
	flag.Parse()

	data, err := readInput(flagin)
	if err != nil {
		logger.Log.Fatalf("读取载荷失败: %v", err)
	}
	out, ok := normalize(data, flagblocks)
	if !ok {
		logger.Log.Fatal("载荷为空")
	}
	if err := write(os.Stdout, out, flagformat); err != nil {
		logger.Log.Fatalf("输出失败: %v", err)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func normalize(data []byte, blocks bool) (*output, bool) {
	r, ok := pestel.NormalizeJSON(data)
	if !ok {
		return nil, false
	}
	out := &output{Shape: r.Shape, Report: r}
	for _, s := range r.Sections() {
		sec := section{Section: s}
		if blocks && s.Present && s.Body != "" {
			sec.Blocks = pestel.Render(s.Body)
		}
		out.Sections = append(out.Sections, sec)
	}
	return out, true
}

func write(w io.Writer, out *output, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
