package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	mid "jewelry-pricer/internal/http/middleware"
	"jewelry-pricer/internal/metrics"
)

// NewServer registers every route on a fresh echo instance.
func NewServer(pricingHandler *PricingHandler, recorder *metrics.Recorder, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(mid.RequestID(log))
	if recorder != nil {
		e.Use(recorder.Middleware)
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{})))
	}

	e.GET("/healthz", HealthCheck)
	e.POST("/preview", pricingHandler.Preview)
	e.POST("/update-prices", pricingHandler.UpdatePrices)

	rates := e.Group("/rates")
	rates.GET("", pricingHandler.ListRates)
	rates.POST("", pricingHandler.SaveRate)

	return e
}
