package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"latency_optimizer/server/bredis"
	"latency_optimizer/server/edgelist"
	"latency_optimizer/server/logger"
	"latency_optimizer/server/metrics"
	"latency_optimizer/server/optimizer"
	"latency_optimizer/server/response"
	"latency_optimizer/server/validation"

	"github.com/labstack/echo/v4"
)

// Cache stores optimization results by fingerprint
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Config struct {
	MaxNodes     int
	MaxBatchSize int
	CacheTTL     time.Duration
}

type Handler struct {
	repo    Repository
	cache   Cache
	metrics *metrics.Metrics
	batch   *BatchRunner
	config  Config
}

// NewHandler wires the optimization endpoints. cache and m may be nil.
func NewHandler(repo Repository, cache Cache, m *metrics.Metrics, batch *BatchRunner, config Config) *Handler {
	return &Handler{
		repo:    repo,
		cache:   cache,
		metrics: m,
		batch:   batch,
		config:  config,
	}
}

// OptimizeResponse is a result plus where it came from
type OptimizeResponse struct {
	*optimizer.Result
	RunID  int64 `json:"runId,omitempty"`
	Cached bool  `json:"cached"`
}

// BatchItem holds either the response or the error of one batch entry
type BatchItem struct {
	Index int                 `json:"index"`
	Data  *OptimizeResponse   `json:"data,omitempty"`
	Error *response.ErrorBody `json:"error,omitempty"`
}

// Serve validates, optimizes and records one network. Results are read from
// and written to the cache when one is configured.
func (h *Handler) Serve(ctx context.Context, source, clientIP string, req OptimizeRequest) (*OptimizeResponse, *response.AppError) {
	if ok, msg := validation.CheckGraphSize(req.N, len(req.Edges), h.config.MaxNodes); !ok {
		h.metrics.ObserveRun(source, metrics.OutcomeRejected, req.N, 0)
		return nil, &response.AppError{
			Code:    response.ErrCodeGraphTooLarge,
			Message: msg,
			Details: echo.Map{"n": req.N, "edges": len(req.Edges), "max_nodes": h.config.MaxNodes},
		}
	}

	start := time.Now()
	fingerprint := Fingerprint(req.N, req.Edges)

	if result, ok := h.cached(ctx, fingerprint); ok {
		h.metrics.CacheHit()
		logger.Debugf("Serving %s from cache", fingerprint)
		logger.Optimization(source, req.N, time.Since(start), true, nil)
		return &OptimizeResponse{
			Result: result,
			RunID:  h.record(ctx, NewRun(fingerprint, source, clientIP, req.N, len(req.Edges), result)),
			Cached: true,
		}, nil
	}

	result, err := optimizer.Optimize(req.N, req.Edges)
	elapsed := time.Since(start)
	logger.Optimization(source, req.N, elapsed, false, err)
	if err != nil {
		appErr := response.FromOptimizerError(err)
		outcome := metrics.OutcomeRejected
		if appErr.Code == response.ErrCodeInternalServerError {
			outcome = metrics.OutcomeError
		}
		h.metrics.ObserveRun(source, outcome, req.N, elapsed)
		return nil, appErr
	}
	h.metrics.ObserveRun(source, metrics.OutcomeOK, req.N, elapsed)

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cacheKey(fingerprint), result, h.config.CacheTTL); err != nil {
			logger.Warnf("Failed to cache result %s: %v", fingerprint, err)
		}
	}

	return &OptimizeResponse{
		Result: result,
		RunID:  h.record(ctx, NewRun(fingerprint, source, clientIP, req.N, len(req.Edges), result)),
	}, nil
}

func (h *Handler) cached(ctx context.Context, fingerprint string) (*optimizer.Result, bool) {
	if h.cache == nil {
		return nil, false
	}

	var result optimizer.Result
	err := h.cache.GetJSON(ctx, cacheKey(fingerprint), &result)
	if err != nil {
		if !errors.Is(err, bredis.ErrCacheMiss) {
			logger.Warnf("Cache lookup for %s failed: %v", fingerprint, err)
		}
		return nil, false
	}
	return &result, true
}

// record saves the run and returns its id. A history failure does not fail
// the request; the result is served without an id.
func (h *Handler) record(ctx context.Context, run *Run) int64 {
	saved, err := h.repo.Create(ctx, run)
	if err != nil {
		logger.ErrorErr(err, "Failed to save optimization run")
		return 0
	}
	return saved.ID
}

func (h *Handler) Optimize(c echo.Context) error {
	var raw rawRequest
	if err := c.Bind(&raw); err != nil {
		return response.BadRequest(c, response.ErrCodeBadRequest, "Invalid request body")
	}

	req, appErr := raw.decode()
	if appErr != nil {
		h.metrics.ObserveRun(SourceAPI, metrics.OutcomeRejected, 0, 0)
		return response.HandleAppError(c, appErr)
	}

	resp, appErr := h.Serve(c.Request().Context(), SourceAPI, c.RealIP(), req)
	if appErr != nil {
		return response.HandleAppError(c, appErr)
	}
	return response.SuccessWithMeta(c, resp, &response.Meta{Total: 1, Cached: resp.Cached})
}

func (h *Handler) OptimizeBatch(c echo.Context) error {
	var req rawBatchRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, response.ErrCodeBadRequest, "Invalid request body")
	}

	if ok, msg := validation.ValidateBatchSize(len(req.Requests), h.config.MaxBatchSize); !ok {
		return response.ValidationError(c, msg, echo.Map{"max_batch_size": h.config.MaxBatchSize})
	}

	clientIP := c.RealIP()
	items := make([]BatchItem, len(req.Requests))
	errs := h.batch.Run(c.Request().Context(), len(req.Requests), func(ctx context.Context, i int) error {
		items[i].Index = i
		decoded, appErr := req.Requests[i].decode()
		if appErr != nil {
			h.metrics.ObserveRun(SourceBatch, metrics.OutcomeRejected, 0, 0)
			items[i].Error = &response.ErrorBody{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
			return appErr
		}
		resp, appErr := h.Serve(ctx, SourceBatch, clientIP, decoded)
		if appErr != nil {
			items[i].Error = &response.ErrorBody{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}
			return appErr
		}
		items[i].Data = resp
		return nil
	})

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		if items[i].Error == nil {
			items[i].Index = i
			items[i].Error = &response.ErrorBody{Code: response.ErrCodeInternalServerError, Message: err.Error()}
		}
	}
	if failed > 0 {
		logger.Warnf("Batch of %d finished with %d failed item(s)", len(items), failed)
	}

	return response.SuccessWithMeta(c, items, &response.Meta{Total: len(items)})
}

// Upload optimizes a network sent as a multipart "data" edge list file
func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("data")
	if err != nil || fileHeader == nil || fileHeader.Size == 0 {
		return response.ValidationError(c, "No file uploaded", echo.Map{"field": "data"})
	}

	if fileHeader.Size > validation.MaxEdgeListFileSize {
		return response.PayloadTooLarge(c, "Edge list file is too large", echo.Map{
			"max_bytes":    validation.MaxEdgeListFileSize,
			"actual_bytes": fileHeader.Size,
		})
	}

	parsed, err := parseUpload(fileHeader)
	if err != nil {
		if errors.Is(err, ErrInvalidContentType) {
			return response.ValidationError(c, err.Error(), echo.Map{"field": "data"})
		}
		return response.BadRequest(c, response.ErrCodeInvalidEdgeList, err.Error())
	}

	resp, appErr := h.Serve(c.Request().Context(), SourceUpload, c.RealIP(), OptimizeRequest{N: parsed.N, Edges: parsed.Edges})
	if appErr != nil {
		return response.HandleAppError(c, appErr)
	}
	return response.SuccessWithMeta(c, resp, &response.Meta{Total: 1, Cached: resp.Cached})
}

var ErrInvalidContentType = errors.New("edge list must be a plain text file")

func parseUpload(fileHeader *multipart.FileHeader) (*edgelist.Network, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Sniff the first 512 bytes like net/http does
	buff := make([]byte, 512)
	n, err := file.Read(buff)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(buff[:n]), "text/plain") {
		return nil, ErrInvalidContentType
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to process file: %w", err)
	}
	return edgelist.Parse(file)
}

func (h *Handler) ListRuns(c echo.Context) error {
	limit, ok, msg := validation.ParseRunLimit(c.QueryParam("limit"))
	if !ok {
		return response.ValidationError(c, msg, echo.Map{"field": "limit"})
	}

	runs, err := h.repo.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list runs", err)
	}
	return response.SuccessWithMeta(c, runs, &response.Meta{Total: len(runs)})
}

func (h *Handler) GetRun(c echo.Context) error {
	id, ok, msg := validation.ParseRunID(c.Param("id"))
	if !ok {
		return response.ValidationError(c, msg, echo.Map{"field": "id"})
	}

	run, err := h.repo.GetByID(c.Request().Context(), id)
	if errors.Is(err, ErrRunNotFound) {
		return response.NotFound(c, "Run not found")
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to get run", err)
	}
	return response.Success(c, run)
}
