// Package export renders reviewed line items for download. The service is
// stateless: the review UI posts the items back and receives CSV or XLSX
// bytes, nothing is persisted.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/HJantango/wild-octave-invoice/internal/entity"
)

// Request is the reviewed data posted for export.
type Request struct {
	Supplier string            `json:"supplier"`
	Items    []entity.LineItem `json:"items"`
}

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var columns = []string{
	"Supplier",
	"Product",
	"Product Code",
	"Quantity",
	"Unit",
	"Cost ex GST",
	"Category",
	"Markup",
	"Retail inc GST",
	"Needs Review",
}

func row(supplier string, li entity.LineItem) []string {
	return []string{
		supplier,
		li.Description,
		li.ProductCode,
		strconv.FormatFloat(li.Quantity, 'f', -1, 64),
		li.Unit,
		fmt.Sprintf("%.2f", li.UnitCost),
		string(li.Category),
		fmt.Sprintf("%.2f", li.Markup),
		fmt.Sprintf("%.2f", li.RetailPrice),
		strconv.FormatBool(li.NeedsReview),
	}
}

// WriteCSV streams the items as CSV.
func (s *Service) WriteCSV(w io.Writer, req Request) error {
	start := time.Now()
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, li := range req.Items {
		if err := cw.Write(row(req.Supplier, li)); err != nil {
			return fmt.Errorf("csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}

	s.logger.Info("export.csv.ok",
		"rows", len(req.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// BuildXLSX returns an XLSX workbook (as bytes) for the reviewed items.
func (s *Service) BuildXLSX(req Request) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Pricing"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for _, li := range req.Items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowIdx)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, req.Supplier)
		write(2, li.Description)
		write(3, li.ProductCode)
		write(4, li.Quantity)
		write(5, li.Unit)
		write(6, li.UnitCost)
		write(7, string(li.Category))
		write(8, li.Markup)
		write(9, li.RetailPrice)
		write(10, li.NeedsReview)
		rowIdx++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 24) // supplier
	_ = f.SetColWidth(sheet, "B", "B", 40) // product
	_ = f.SetColWidth(sheet, "C", "C", 14) // code
	_ = f.SetColWidth(sheet, "F", "I", 14) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(req.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
