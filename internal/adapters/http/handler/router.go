package handler

import (
	"log"

	"github.com/gin-gonic/gin"
)

// NewRouter は /api 配下のルートを登録したエンジンを返します。
// アクセスログは logger の出力先に書き出します。
func NewRouter(h *HRSyncHTTPHandler, logger *log.Logger) *gin.Engine {
	r := gin.New()
	if logger != nil {
		r.Use(gin.LoggerWithWriter(logger.Writer()))
	}
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/sync", h.Sync)
		api.POST("/employees", h.AddEmployee)
		api.POST("/attendance", h.AddAttendance)
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.SaveSettings)
		api.GET("/app-settings", h.GetAppSettings)
		api.PUT("/app-settings", h.SaveAppSettings)
		api.GET("/summary", h.Summary)
	}

	return r
}
