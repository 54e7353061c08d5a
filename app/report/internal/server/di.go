package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/pestel_radar/app/report/internal/data"
	"github.com/iWorld-y/pestel_radar/app/report/internal/service"
	"github.com/iWorld-y/pestel_radar/app/report/internal/usecase"
)

// ProviderSet 是报告服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewGenerator,

	// Data providers
	data.NewData,
	data.NewAnalysisRepo,
	data.NewReportRepo,

	// UseCase providers
	usecase.NewAnalysisUseCase,
	usecase.NewReportUseCase,

	// Service providers
	service.NewReportService,
)
