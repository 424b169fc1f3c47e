package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/marketsvc/domain"
	"github.com/you/marketsvc/internal/http/middleware"
	"github.com/you/marketsvc/internal/reports"
	"github.com/you/marketsvc/internal/wire"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxImportSize bounds uploaded package sheets
const maxImportSize = 5 << 20

// ReportHandlers serves file downloads and uploads around the dispatcher
type ReportHandlers struct {
	orders   domain.OrderService
	stats    domain.StatisticsService
	packages domain.PackageService
	qr       reports.QRGenerator
	now      func() time.Time
}

// NewReportHandlers creates new report handlers
func NewReportHandlers(orders domain.OrderService, stats domain.StatisticsService, packages domain.PackageService, qr reports.QRGenerator) *ReportHandlers {
	return &ReportHandlers{orders: orders, stats: stats, packages: packages, qr: qr, now: time.Now}
}

// OrderQRCode handles GET /orders/:id/qrcode
func (h *ReportHandlers) OrderQRCode(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := middleware.CheckRestaurantScope(c, order.RestaurantID); err != nil {
		writeError(c, err)
		return
	}

	png, err := h.qr.Generate(order)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// StatisticsWorkbook handles GET /admin/statistics.xlsx
func (h *ReportHandlers) StatisticsWorkbook(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.stats.Collect(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	orders, err := h.orders.List(ctx, domain.OrderFilter{})
	if err != nil {
		writeError(c, err)
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := reports.WriteStatistics(&buf, stats, orders, now); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="statistics-%s.xlsx"`, now.Format("20060102")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// PackageTemplate handles GET /packages/import/template
func (h *ReportHandlers) PackageTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := reports.WritePackageTemplate(&buf); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="packages.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ImportPackages handles POST /packages/import: a multipart "file" holding
// an xlsx sheet of packages for the caller's restaurant.
func (h *ReportHandlers) ImportPackages(c *gin.Context) {
	restaurantID := c.PostForm("restaurantId")
	if own, _ := c.Get(middleware.KeyRestaurantID); restaurantID == "" && own != nil {
		restaurantID, _ = own.(string)
	}
	if restaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurantId is required"})
		return
	}
	if err := middleware.CheckRestaurantScope(c, restaurantID); err != nil {
		writeError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if header.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open file"})
		return
	}
	defer f.Close()

	parsed, rejected, err := reports.ParsePackages(f, restaurantID)
	if err != nil {
		writeError(c, err)
		return
	}

	created := make([]wire.Package, 0, len(parsed))
	for _, row := range parsed {
		added, err := h.packages.Add(c.Request.Context(), row.Package)
		if err != nil {
			rejected = append(rejected, reports.RowError{Row: row.Row, Reason: err.Error()})
			continue
		}
		created = append(created, wire.FromPackage(added))
	}
	log.Printf("[http] imported %d packages for restaurant %s (%d rejected)", len(created), restaurantID, len(rejected))

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"created": created, "rejected": rejected}})
}

// writeError maps err to a status code for the non-dispatch routes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindUnauthorized:
		status = http.StatusForbidden
		if errors.Is(err, domain.ErrUnauthorized) {
			status = http.StatusUnauthorized
		}
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindInvalidTransition, domain.KindConflict:
		status = http.StatusConflict
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[http] %s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}
