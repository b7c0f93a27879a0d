package webserver

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DevWolk/fop-calc/internal/app/realflow"
	"github.com/DevWolk/fop-calc/internal/transport/httpapi"
)

func New(app *realflow.App) *httpapi.Server {
	// Метрики процесса и конвейера на /metrics
	metrics := promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})
	// Адаптер между httpapi и calculator.Service
	srv := httpapi.New(app.Config.HTTP.Addr, &httpapi.CalculatorAdapter{Svc: app.Calc}, app.Rates, app.Settings(), metrics, app.Log)
	srv.ReadHeaderTimeout = app.Config.HTTP.ReadHeaderTimeout
	return srv
}
