package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"settlement-profit/internal/domain"
	"settlement-profit/internal/gateway"
	"settlement-profit/internal/jobs"
	"settlement-profit/internal/observability/metrics"
	"settlement-profit/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UploadStore keeps uploaded reports until a job consumes them.
type UploadStore interface {
	Save(filename string, r io.Reader) (string, error)
	Path(id string) (string, error)
	Remove(path string) error
}

// ProductLister lists the distinct products of a stored report.
type ProductLister interface {
	Extract(ctx context.Context, path string) ([]domain.Product, error)
}

// JobRunner runs reconciliations in the background.
type JobRunner interface {
	Submit(ctx context.Context, uploadPath string, pricing []domain.PricingInput) (string, error)
	Status(token string) (jobs.Job, error)
	TakeArtifact(token string) ([]byte, string, error)
}

// ReportHandler serves the upload, pricing and download flow.
type ReportHandler struct {
	checker  *gateway.FileChecker
	uploads  UploadStore
	products ProductLister
	runner   JobRunner
	maxBytes int64
}

func NewReportHandler(checker *gateway.FileChecker, uploads UploadStore, products ProductLister, runner JobRunner, maxBytes int64) *ReportHandler {
	if maxBytes <= 0 {
		maxBytes = gateway.DefaultMaxUploadBytes
	}
	return &ReportHandler{
		checker:  checker,
		uploads:  uploads,
		products: products,
		runner:   runner,
		maxBytes: maxBytes,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/uploads", h.Upload)
	reports := router.Group("/reports")
	{
		reports.POST("", h.CreateReport)
		reports.GET("/:token", h.GetReport)
		reports.GET("/:token/file", h.DownloadReport)
	}
}

type uploadResponse struct {
	UploadID string           `json:"upload_id"`
	Products []domain.Product `json:"products"`
}

// Upload stores a settlement report and returns its products for pricing.
func (h *ReportHandler) Upload(c *gin.Context) {
	logger := LoggerFromContext(c)
	// Multipart framing adds a little on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		metrics.IncUpload(metrics.ResultRejected)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, "file is too large"))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		metrics.IncUpload(metrics.ResultError)
		logger.Error("failed to open upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to read upload"))
		return
	}
	defer file.Close()

	if err := h.checker.Check(header.Filename, header.Size, file); err != nil {
		metrics.IncUpload(metrics.ResultRejected)
		status := http.StatusUnsupportedMediaType
		message := "only .xlsx files are allowed"
		if errors.Is(err, domain.ErrFileTooLarge) {
			status, message = http.StatusRequestEntityTooLarge, "file is too large"
		}
		c.JSON(status, response.Error(status, message))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		metrics.IncUpload(metrics.ResultError)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to read upload"))
		return
	}

	id, err := h.uploads.Save(header.Filename, file)
	if err != nil {
		metrics.IncUpload(metrics.ResultError)
		logger.Error("failed to store upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to store upload"))
		return
	}
	path, err := h.uploads.Path(id)
	if err != nil {
		metrics.IncUpload(metrics.ResultError)
		logger.Error("stored upload vanished", slog.String("upload_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to store upload"))
		return
	}

	products, err := h.products.Extract(c.Request.Context(), path)
	if err != nil {
		metrics.IncUpload(metrics.ResultRejected)
		logger.Warn("failed to extract products", slog.String("upload_id", id), slog.String("error", err.Error()))
		if rmErr := h.uploads.Remove(path); rmErr != nil {
			logger.Warn("failed to remove upload", slog.String("error", rmErr.Error()))
		}
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "report could not be read"))
		return
	}

	metrics.IncUpload(metrics.ResultSuccess)
	logger.Info("report uploaded", slog.String("upload_id", id), slog.Int("products", len(products)))
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, uploadResponse{UploadID: id, Products: products}))
}

type createReportRequest struct {
	UploadID string                `json:"upload_id" binding:"required"`
	Products []domain.PricingInput `json:"products"`
}

type createReportResponse struct {
	Token string `json:"token"`
}

// CreateReport starts a reconciliation of an uploaded report with the submitted prices.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	path, err := h.uploads.Path(req.UploadID)
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "upload not found, upload the report again"))
		return
	}

	pricing := make([]domain.PricingInput, 0, len(req.Products))
	for _, p := range req.Products {
		if p.Blank() {
			continue
		}
		pricing = append(pricing, p)
	}

	token, err := h.runner.Submit(c.Request.Context(), path, pricing)
	if err != nil {
		LoggerFromContext(c).Error("failed to submit job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to start processing"))
		return
	}
	c.JSON(http.StatusAccepted, response.Success(http.StatusAccepted, createReportResponse{Token: token}))
}

// GetReport returns the status of a job.
func (h *ReportHandler) GetReport(c *gin.Context) {
	job, err := h.runner.Status(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "job not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// DownloadReport sends the artifact of a completed job once.
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	data, name, err := h.runner.TakeArtifact(c.Param("token"))
	switch {
	case errors.Is(err, domain.ErrJobNotReady):
		metrics.IncDownload(metrics.ResultRejected)
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, "report is still processing"))
		return
	case errors.Is(err, domain.ErrJobNotFound):
		metrics.IncDownload(metrics.ResultGone)
		c.JSON(http.StatusGone, response.Error(http.StatusGone, "report is no longer available"))
		return
	case err != nil:
		metrics.IncDownload(metrics.ResultError)
		LoggerFromContext(c).Error("failed to read artifact", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to read report"))
		return
	}

	metrics.IncDownload(metrics.ResultSuccess)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, xlsxContentType, data)
}
