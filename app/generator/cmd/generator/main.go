package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iWorld-y/pestel_radar/app/common/pestel"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/config"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/generator"
	"github.com/iWorld-y/pestel_radar/app/generator/pkg/logger"
	dm "github.com/iWorld-y/pestel_radar/app/generator/pkg/model"
)

var (
	flagconf string
	flagform string
	flagout  string
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/generator/configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagform, "form", "", "analysis form JSON file")
	flag.StringVar(&flagout, "out", "", "output file, stdout when empty")
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	if flagform == "" {
		logger.Log.Fatal("缺少 -form 参数")
	}

	data, err := os.ReadFile(flagform)
	if err != nil {
		logger.Log.Fatalf("读取表单失败: %v", err)
	}
	var form dm.Form
	if err := json.Unmarshal(data, &form); err != nil {
		logger.Log.Fatalf("解析表单失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, cleanup, err := generator.New(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("生成器初始化失败: %v", err)
	}
	defer cleanup()

	logger.Log.Infof("启动 PESTEL 报告生成 (mode=%s)...", cfg.Mode)
	payload, err := gen.Generate(ctx, &form)
	if err != nil {
		logger.Log.Errorf("报告生成失败: %v", err)
		return
	}

	if r, ok := pestel.NormalizeJSON(payload); ok {
		logger.Log.Infof("报告形态: %s，包含 %d 个维度", r.Shape, len(r.PresentDimensions()))
	}

	if flagout == "" {
		_, _ = os.Stdout.Write(append(payload, '\n'))
		return
	}
	if err := os.WriteFile(flagout, payload, 0o644); err != nil {
		logger.Log.Errorf("写入结果失败: %v", err)
		return
	}
	logger.Log.Infof("报告已写入 %s", flagout)
}
