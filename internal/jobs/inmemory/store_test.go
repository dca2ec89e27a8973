package inmemory

import (
	"context"
	"errors"
	"testing"

	"github.com/oluto/statements/internal/jobs"
)

func TestStore_SaveAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	job := &jobs.ImportStatementJob{
		JobID:      "job-1",
		BusinessID: "biz-1",
		Status:     jobs.JobStatusPending,
	}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := s.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.BusinessID != "biz-1" || got.Status != jobs.JobStatusPending {
		t.Errorf("got %+v", got)
	}

	// Mutating the returned copy must not affect the stored job.
	got.Status = jobs.JobStatusFailed
	again, _ := s.GetJob(ctx, "job-1")
	if again.Status != jobs.JobStatusPending {
		t.Error("GetJob must return a copy")
	}
}

func TestStore_SaveRequiresID(t *testing.T) {
	s := NewStore()
	if err := s.SaveJob(context.Background(), &jobs.ImportStatementJob{}); err == nil {
		t.Error("expected error for missing job ID")
	}
}

func TestStore_GetUnknownJob(t *testing.T) {
	s := NewStore()
	_, err := s.GetJob(context.Background(), "nope")
	if !errors.Is(err, jobs.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStore_ListJobs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.SaveJob(ctx, &jobs.ImportStatementJob{JobID: "a", BusinessID: "biz-1", Status: jobs.JobStatusPending})
	_ = s.SaveJob(ctx, &jobs.ImportStatementJob{JobID: "b", BusinessID: "biz-1", Status: jobs.JobStatusCompleted})
	_ = s.SaveJob(ctx, &jobs.ImportStatementJob{JobID: "c", BusinessID: "biz-2", Status: jobs.JobStatusPending})

	byBusiness, err := s.ListJobs(ctx, jobs.JobFilter{BusinessID: "biz-1"})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(byBusiness) != 2 {
		t.Errorf("business filter returned %d jobs, want 2", len(byBusiness))
	}

	byStatus, err := s.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(byStatus) != 2 {
		t.Errorf("status filter returned %d jobs, want 2", len(byStatus))
	}

	limited, err := s.ListJobs(ctx, jobs.JobFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit returned %d jobs, want 1", len(limited))
	}
}

func TestStore_UpdateJobProgress(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_ = s.SaveJob(ctx, &jobs.ImportStatementJob{JobID: "j", Status: jobs.JobStatusRunning})

	if err := s.UpdateJobProgress(ctx, "j", 50, "OCR complete"); err != nil {
		t.Fatalf("UpdateJobProgress: %v", err)
	}

	job, _ := s.GetJob(ctx, "j")
	if job.Progress != 50 || job.ProgressMessage != "OCR complete" {
		t.Errorf("job = %+v", job)
	}

	// Progress never moves backwards.
	_ = s.UpdateJobProgress(ctx, "j", 10, "stale update")
	job, _ = s.GetJob(ctx, "j")
	if job.Progress != 50 {
		t.Errorf("Progress = %d, want 50 (no rollback)", job.Progress)
	}

	if err := s.UpdateJobProgress(ctx, "nope", 10, ""); !errors.Is(err, jobs.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}
