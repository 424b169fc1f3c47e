// Package reports renders marketplace data into files: the admin statistics
// workbook, bulk package sheets and pickup QR codes.
package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/you/marketsvc/domain"
)

const (
	SummarySheet = "Summary"
	OrdersSheet  = "Orders"
)

var orderColumns = []string{"Order", "Restaurant", "Customer", "Items", "Total", "Status", "Created"}

// WriteStatistics writes a workbook with the statistics summary and one row per order
func WriteStatistics(w io.Writer, stats *domain.Statistics, orders []*domain.Order, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total applications", stats.TotalApplications},
		{"Pending applications", stats.PendingApplications},
		{"Approved applications", stats.ApprovedApplications},
		{"Active restaurants", stats.ActiveRestaurants},
		{"Total users", stats.TotalUsers},
		{"Total packages", stats.TotalPackages},
		{"Active packages", stats.ActivePackages},
		{"Total orders", stats.TotalOrders},
		{"Generated at", generatedAt.UTC().Format(time.RFC3339)},
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(OrdersSheet); err != nil {
		return err
	}
	header := make([]interface{}, len(orderColumns))
	for i, c := range orderColumns {
		header[i] = c
	}
	if err := setRow(f, OrdersSheet, 1, header); err != nil {
		return err
	}
	for i, o := range orders {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		row := []interface{}{o.ID, o.RestaurantID, o.Customer.Name, items, o.TotalPrice, string(o.Status), o.CreatedAt.UTC().Format(time.RFC3339)}
		if err := setRow(f, OrdersSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 24); err != nil {
		return err
	}
	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
