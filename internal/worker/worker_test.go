package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/oluto/statements/internal/importer"
	"github.com/oluto/statements/internal/jobs"
	"github.com/oluto/statements/internal/jobs/inmemory"
	"github.com/oluto/statements/internal/ocr"
)

const ocrStatement = `BMO Mastercard Statement
Statement period: Jan 1 - Jan 31, 2024

| Date | Description | Amount |
| Jan 05 | STAPLES #123 TORONTO | 45.19 |
| Jan 12 | SHELL C01234 MISSISSAUGA | 60.00 |
`

type fakeBlobs struct {
	content  []byte
	fetchErr error
}

func (f *fakeBlobs) UploadStatement(_ context.Context, _, filename string, _ []byte) (string, error) {
	return "gs://test-bucket/statements/biz/" + filename, nil
}

func (f *fakeBlobs) FetchFromGCS(_ context.Context, _ string) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.content, nil
}

type fakeOCR struct {
	resp *ocr.Response
	err  error
}

func (f *fakeOCR) Process(_ context.Context, _ []byte) (*ocr.Response, error) {
	return f.resp, f.err
}

func newTestWorker(t *testing.T, blobs *fakeBlobs, backend *fakeOCR) (*ImportWorker, *inmemory.Store) {
	t.Helper()
	log := zerolog.Nop()
	store := inmemory.NewStore()
	service := importer.NewService(nil, nil, backend, log)
	return New(service, blobs, store, log), store
}

func savedJob(t *testing.T, store *inmemory.Store) *jobs.ImportStatementJob {
	t.Helper()
	job := &jobs.ImportStatementJob{
		JobID:      "job-1",
		BusinessID: "biz-1",
		GCSURI:     "gs://test-bucket/statements/biz/stmt_2024.pdf",
		FileName:   "stmt_2024.pdf",
		Status:     jobs.JobStatusRunning,
	}
	if err := store.SaveJob(context.Background(), job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}
	return job
}

func TestHandle_SuccessfulImport(t *testing.T) {
	blobs := &fakeBlobs{content: []byte("%PDF-1.4")}
	backend := &fakeOCR{resp: &ocr.Response{Pages: []ocr.Page{{Markdown: ocrStatement}}}}
	w, store := newTestWorker(t, blobs, backend)
	job := savedJob(t, store)

	if err := w.Handle(context.Background(), job); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if job.Result == nil {
		t.Fatal("expected a parse result on the job")
	}
	if job.Result.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", job.Result.TotalCount)
	}
	if job.Progress != 100 {
		t.Errorf("Progress = %d, want 100", job.Progress)
	}

	stored, err := store.GetJob(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if stored.Progress != 100 {
		t.Errorf("stored progress = %d, want 100", stored.Progress)
	}
}

func TestHandle_FetchFailure(t *testing.T) {
	blobs := &fakeBlobs{fetchErr: errors.New("object not found")}
	w, store := newTestWorker(t, blobs, &fakeOCR{})
	job := savedJob(t, store)

	if err := w.Handle(context.Background(), job); err == nil {
		t.Fatal("expected an error when the PDF cannot be fetched")
	}
	if job.ErrorType != "fetch_error" {
		t.Errorf("ErrorType = %q, want fetch_error", job.ErrorType)
	}
}

func TestHandle_OCRTimeout(t *testing.T) {
	blobs := &fakeBlobs{content: []byte("%PDF-1.4")}
	backend := &fakeOCR{err: ocr.ErrTimeout}
	w, store := newTestWorker(t, blobs, backend)
	job := savedJob(t, store)

	err := w.Handle(context.Background(), job)
	if err == nil {
		t.Fatal("expected an error when OCR times out")
	}
	if job.ErrorType != importer.ErrTypeOCRTimeout {
		t.Errorf("ErrorType = %q, want %q", job.ErrorType, importer.ErrTypeOCRTimeout)
	}

	var importErr *importer.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("error %v should wrap *importer.ImportError", err)
	}
}

func TestHandle_RejectsUnknownJobType(t *testing.T) {
	w, _ := newTestWorker(t, &fakeBlobs{}, &fakeOCR{})

	if err := w.Handle(context.Background(), unknownJob{}); err == nil {
		t.Fatal("expected an error for an unknown job type")
	}
}

type unknownJob struct{}

func (unknownJob) GetID() string             { return "x" }
func (unknownJob) GetType() jobs.JobType     { return "unknown" }
func (unknownJob) GetStatus() jobs.JobStatus { return jobs.JobStatusPending }
