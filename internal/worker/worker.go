// Package worker processes queued PDF import jobs.
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/oluto/statements/internal/gcsuploader"
	"github.com/oluto/statements/internal/importer"
	"github.com/oluto/statements/internal/jobs"
)

// ImportWorker executes statement import jobs: fetch the PDF from GCS, run
// the import pipeline, and record the outcome on the job.
type ImportWorker struct {
	service  *importer.Service
	blobs    gcsuploader.BlobStore
	jobStore jobs.JobStore
	log      zerolog.Logger
}

func New(service *importer.Service, blobs gcsuploader.BlobStore, jobStore jobs.JobStore, log zerolog.Logger) *ImportWorker {
	return &ImportWorker{
		service:  service,
		blobs:    blobs,
		jobStore: jobStore,
		log:      log.With().Str("component", "import-worker").Logger(),
	}
}

// Handle implements jobs.JobHandler for ImportStatementJob.
func (w *ImportWorker) Handle(ctx context.Context, job jobs.Job) error {
	importJob, ok := job.(*jobs.ImportStatementJob)
	if !ok {
		return fmt.Errorf("unexpected job type: %T", job)
	}

	w.log.Info().
		Str("job_id", importJob.JobID).
		Str("business_id", importJob.BusinessID).
		Str("gcs_uri", importJob.GCSURI).
		Msg("Processing import job")

	progress := func(pct int, msg string) {
		if err := w.jobStore.UpdateJobProgress(ctx, importJob.JobID, pct, msg); err != nil {
			w.log.Warn().Err(err).Str("job_id", importJob.JobID).Msg("Failed to record job progress")
		}
	}

	content, err := w.blobs.FetchFromGCS(ctx, importJob.GCSURI)
	if err != nil {
		importJob.ErrorType = "fetch_error"
		w.log.Error().Err(err).Str("job_id", importJob.JobID).Msg("Failed to fetch statement from GCS")
		return err
	}

	result, err := w.service.ImportPDF(ctx, importJob.BusinessID, content, importJob.FileName, progress)
	if err != nil {
		var importErr *importer.ImportError
		if errors.As(err, &importErr) {
			importJob.ErrorType = importErr.Type
		}
		w.log.Error().Err(err).Str("job_id", importJob.JobID).Msg("Import pipeline failed")
		return err
	}

	importJob.Result = result
	importJob.Progress = 100

	w.log.Info().
		Str("job_id", importJob.JobID).
		Int("transactions", result.TotalCount).
		Int("duplicates", result.DuplicateCount).
		Msg("Import job completed")

	return nil
}
