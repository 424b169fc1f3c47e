package reports

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/you/marketsvc/domain"
)

// PackageColumns is the header expected on the first sheet of a package import
var PackageColumns = []string{"Name", "Description", "Original price", "Discounted price", "Quantity", "Available until"}

// ImportRow is a package read from a sheet row
type ImportRow struct {
	Row     int
	Package *domain.Package
}

// RowError describes a sheet row that could not be imported
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParsePackages reads packages for restaurantID from the first sheet of an
// xlsx workbook. The header row is skipped and bad rows are reported, not fatal.
func ParsePackages(r io.Reader, restaurantID string) ([]ImportRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: not an xlsx workbook", domain.ErrInvalidPayload)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrInvalidPayload)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	var (
		packages []ImportRow
		rejected []RowError
	)
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if isBlank(row) {
			continue
		}
		pkg, err := packageFromRow(row, restaurantID)
		if err != nil {
			rejected = append(rejected, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		packages = append(packages, ImportRow{Row: i + 1, Package: pkg})
	}
	return packages, rejected, nil
}

// WritePackageTemplate writes an empty import sheet with the expected header
func WritePackageTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(PackageColumns))
	for i, c := range PackageColumns {
		header[i] = c
	}
	if err := setRow(f, "Sheet1", 1, header); err != nil {
		return err
	}
	return f.Write(w)
}

func packageFromRow(row []string, restaurantID string) (*domain.Package, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	original, err := parsePrice(cell(2))
	if err != nil {
		return nil, fmt.Errorf("original price: %w", err)
	}
	discounted, err := parsePrice(cell(3))
	if err != nil {
		return nil, fmt.Errorf("discounted price: %w", err)
	}
	qty, err := strconv.Atoi(cell(4))
	if err != nil || qty <= 0 {
		return nil, fmt.Errorf("quantity must be a positive integer")
	}

	pkg := &domain.Package{
		RestaurantID:      restaurantID,
		Name:              name,
		Description:       cell(1),
		OriginalPrice:     original,
		DiscountedPrice:   discounted,
		Quantity:          qty,
		RemainingQuantity: qty,
	}
	if until := cell(5); until != "" {
		t, err := parseTime(until)
		if err != nil {
			return nil, fmt.Errorf("available until: %w", err)
		}
		pkg.AvailableUntil = t
	}
	return pkg, nil
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%q is not a price", s)
	}
	return v, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date", s)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
