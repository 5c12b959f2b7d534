package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HJantango/wild-octave-invoice/constants"
	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/entity"
	"github.com/HJantango/wild-octave-invoice/internal/export"
	"github.com/HJantango/wild-octave-invoice/internal/metrics"
)

// processInvoice handles the multipart upload: decode file + provider, run
// the extraction chain, enhance, format. Backend failures never surface
// here; the adapter guarantees a well-formed invoice.
func (s *Server) processInvoice(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "file part is required",
			Details: err.Error(),
		})
		return
	}
	if constants.MapExtToFormat(filepath.Ext(fh.Filename)) == "" {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "unsupported file type",
			Details: fmt.Sprintf("extension %q is not accepted", filepath.Ext(fh.Filename)),
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "failed to read upload",
			Details: err.Error(),
		})
		return
	}
	data, err := io.ReadAll(f)
	if cerr := f.Close(); cerr != nil {
		s.logger.Warn("http.upload_close_error", "error", cerr)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   "failed to read upload",
			Details: err.Error(),
		})
		return
	}

	provider := c.PostForm("provider")
	ctx = common.WithProvider(ctx, provider)

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = constants.ContentTypeForExt(filepath.Ext(fh.Filename))
	}
	file := entity.UploadedFile{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}

	s.logger.Info("http.process.start",
		"req_id", common.RequestIDFromContext(ctx),
		"filename", fh.Filename,
		"size", len(data),
		"provider", provider,
	)

	inv := s.adapter.Process(ctx, provider, file)
	items := s.enhancer.Enhance(ctx, inv.LineItems)

	metrics.RequestDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("http.process.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"supplier", inv.Supplier.Name,
		"items", len(items),
		"method", inv.Method,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	c.JSON(http.StatusOK, buildResponse(inv, items))
}

// exportItems renders reviewed items as CSV (default) or XLSX.
func (s *Server) exportItems(c *gin.Context) {
	var req export.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "invalid export payload",
			Details: err.Error(),
		})
		return
	}

	format := c.DefaultQuery("format", "csv")
	filename := "invoice-pricing-" + time.Now().UTC().Format("20060102")

	switch format {
	case "csv":
		metrics.Exports.WithLabelValues("csv").Inc()
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		c.Status(http.StatusOK)
		if err := s.exporter.WriteCSV(c.Writer, req); err != nil {
			s.logger.Error("http.export.csv_failed", "error", err)
		}
	case "xlsx":
		buf, err := s.exporter.BuildXLSX(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse{
				Error:   "export failed",
				Details: err.Error(),
			})
			return
		}
		metrics.Exports.WithLabelValues("xlsx").Inc()
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf)
	default:
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "unsupported export format",
			Details: fmt.Sprintf("format %q is not one of csv, xlsx", format),
		})
	}
}
