package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/marketsvc/internal/http/handlers"
	"github.com/you/marketsvc/internal/http/middleware"
	"github.com/you/marketsvc/internal/realtime"
)

func BuildRouter(dh *handlers.DispatchHandlers, rh *handlers.ReportHandlers, ph *handlers.PolicyHandlers, ws *realtime.Server, smw *middleware.SessionMW, cb middleware.CasbinMiddleware) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Single entry point; the dispatcher resolves the caller and enforces policy per action
	r.POST("/api/dispatch", dh.Dispatch)
	r.GET("/ws", ws.Handle)

	v := r.Group("/").Use(smw.WithSession(), cb.Enforce())
	v.GET("/orders/:id/qrcode", rh.OrderQRCode)
	v.GET("/packages/import/template", rh.PackageTemplate)
	v.POST("/packages/import", rh.ImportPackages)

	adm := r.Group("/admin").Use(smw.WithSession(), cb.Enforce())
	adm.GET("/statistics.xlsx", rh.StatisticsWorkbook)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
