package mocks

//go:generate mockgen -destination=./mock_report.go -package=mocks github.com/rxtech-lab/argo-analytics/internal/report TradeSource,CandleSource
