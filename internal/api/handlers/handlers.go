package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/oluto/statements/internal/api/middleware"
	"github.com/oluto/statements/internal/gcsuploader"
	"github.com/oluto/statements/internal/importer"
	"github.com/oluto/statements/internal/jobs"
	"github.com/oluto/statements/internal/statement"
)

// maxUploadBytes caps statement uploads at 20 MB.
const maxUploadBytes = 20 << 20

// CategorySuggester provides a single-transaction category hint.
type CategorySuggester interface {
	SuggestCategory(ctx context.Context, vendor string, amount decimal.Decimal, description string) statement.CategorySuggestion
}

// TransactionSaver persists user-confirmed transactions.
type TransactionSaver interface {
	InsertTransactions(ctx context.Context, businessID string, txs []*statement.ParsedTransaction) error
}

// ImportHandler handles statement import endpoints.
type ImportHandler struct {
	service   *importer.Service
	blobs     gcsuploader.BlobStore
	publisher jobs.Publisher
	suggester CategorySuggester
	saver     TransactionSaver
	log       zerolog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *importer.Service, blobs gcsuploader.BlobStore, publisher jobs.Publisher, suggester CategorySuggester, saver TransactionSaver, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		service:   service,
		blobs:     blobs,
		publisher: publisher,
		suggester: suggester,
		saver:     saver,
		log:       log,
	}
}

// ParseCSV handles POST /api/import/parse
// CSV files are small enough to parse inline; the response carries the full
// parse result for user review.
func (h *ImportHandler) ParseCSV(w http.ResponseWriter, r *http.Request) {
	businessID, filename, content, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".csv" {
		middleware.WriteError(w, http.StatusBadRequest, "Only CSV files are accepted on this endpoint")
		return
	}

	result, err := h.service.ImportCSV(r.Context(), businessID, content, filename)
	if err != nil {
		h.log.Error().Err(err).Str("file", filename).Msg("CSV import failed")
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// ParsePDF handles POST /api/import/parse-pdf
// The PDF is stashed in GCS and parsed by a background worker; the response
// is a job ID the client polls via GET /api/jobs/{id}.
func (h *ImportHandler) ParsePDF(w http.ResponseWriter, r *http.Request) {
	if h.blobs == nil || h.publisher == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "PDF import is not configured on this server")
		return
	}

	businessID, filename, content, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".pdf" {
		middleware.WriteError(w, http.StatusBadRequest, "Only PDF files are accepted on this endpoint")
		return
	}

	ctx := r.Context()

	gcsURI, err := h.blobs.UploadStatement(ctx, businessID, filename, content)
	if err != nil {
		h.log.Error().Err(err).Str("file", filename).Msg("Failed to stash statement upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	job := &jobs.ImportStatementJob{
		BusinessID: businessID,
		FileName:   filename,
		GCSURI:     gcsURI,
	}

	if err := h.publisher.PublishImportStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue import job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue import job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("file", filename).Msg("Import job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// ConfirmImport handles POST /api/import/confirm
// The client sends back the transactions the user kept after review; they
// are persisted as-is, including any category edits made in the UI.
func (h *ImportHandler) ConfirmImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID   string                         `json:"business_id"`
		Transactions []*statement.ParsedTransaction `json:"transactions"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.BusinessID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "business_id is required")
		return
	}
	if len(req.Transactions) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "transactions is required")
		return
	}

	if err := h.saver.InsertTransactions(r.Context(), req.BusinessID, req.Transactions); err != nil {
		h.log.Error().Err(err).Str("business_id", req.BusinessID).Msg("Failed to save confirmed transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save transactions")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]int{"saved": len(req.Transactions)})
}

// SuggestCategory handles POST /api/transactions/suggest-category
func (h *ImportHandler) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorName  string          `json:"vendor_name"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.VendorName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "vendor_name is required")
		return
	}

	if h.suggester == nil {
		// Categorization unconfigured: answer with the catch-all rather
		// than failing, mirroring the batch path's degradation.
		middleware.WriteJSON(w, http.StatusOK, statement.CategorySuggestion{Category: statement.CategoryOther})
		return
	}

	suggestion := h.suggester.SuggestCategory(r.Context(), req.VendorName, req.Amount, req.Description)
	middleware.WriteJSON(w, http.StatusOK, suggestion)
}

// readUpload pulls the business ID and statement file out of a multipart
// form, writing the error response itself when the upload is unusable.
func (h *ImportHandler) readUpload(w http.ResponseWriter, r *http.Request) (businessID, filename string, content []byte, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return "", "", nil, false
	}

	businessID = r.FormValue("business_id")
	if businessID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "business_id is required")
		return "", "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "file is required")
		return "", "", nil, false
	}
	defer file.Close()

	content, err = io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read upload")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return "", "", nil, false
	}

	return businessID, filepath.Base(header.Filename), content, true
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store: store,
		log:   log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Job not found")
			return
		}
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to get job")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		BusinessID: query.Get("business_id"),
		Status:     jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
