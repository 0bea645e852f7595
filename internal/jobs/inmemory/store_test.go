package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/luiza-sangalli/financial-hub/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ProcessFileJob{
		JobID:     "job-1",
		FileID:    "file-1",
		CompanyID: "company-1",
		Status:    jobs.JobStatusPending,
		CreatedAt: time.Now(),
	}

	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.FileID != "file-1" || got.Status != jobs.JobStatusPending {
		t.Errorf("GetJob() = %+v", got)
	}

	// Mutating the returned copy must not affect the stored job.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(ctx, "job-1")
	if again.Status != jobs.JobStatusPending {
		t.Errorf("stored job mutated through returned copy: %s", again.Status)
	}
}

func TestStoreSaveJob_RequiresID(t *testing.T) {
	store := NewStore()
	if err := store.SaveJob(context.Background(), &jobs.ProcessFileJob{}); err == nil {
		t.Error("expected error for empty job ID")
	}
}

func TestStoreGetJob_NotFound(t *testing.T) {
	store := NewStore()
	if _, err := store.GetJob(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing job")
	}
}

func TestStoreListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	seed := []*jobs.ProcessFileJob{
		{JobID: "j1", FileID: "f1", Status: jobs.JobStatusCompleted, CreatedAt: base},
		{JobID: "j2", FileID: "f1", Status: jobs.JobStatusFailed, CreatedAt: base.Add(time.Minute)},
		{JobID: "j3", FileID: "f2", Status: jobs.JobStatusPending, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s) error = %v", j.JobID, err)
		}
	}

	t.Run("by file", func(t *testing.T) {
		got, err := store.ListJobs(ctx, jobs.JobFilter{FileID: "f1"})
		if err != nil {
			t.Fatalf("ListJobs() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if got[0].JobID != "j2" {
			t.Errorf("got[0].JobID = %s, want j2 (newest first)", got[0].JobID)
		}
	})

	t.Run("by status", func(t *testing.T) {
		got, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusPending})
		if err != nil {
			t.Fatalf("ListJobs() error = %v", err)
		}
		if len(got) != 1 || got[0].JobID != "j3" {
			t.Errorf("got = %v", got)
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("ListJobs() error = %v", err)
		}
		if len(got) != 1 || got[0].JobID != "j2" {
			t.Errorf("got = %v", got)
		}
	})

	t.Run("offset past end", func(t *testing.T) {
		got, err := store.ListJobs(ctx, jobs.JobFilter{Offset: 10})
		if err != nil {
			t.Fatalf("ListJobs() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})
}

func TestStoreUpdateJobStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_ = store.SaveJob(ctx, &jobs.ProcessFileJob{JobID: "j1", Status: jobs.JobStatusPending})

	if err := store.UpdateJobStatus(ctx, "j1", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus() error = %v", err)
	}
	got, _ := store.GetJob(ctx, "j1")
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("got = %+v", got)
	}

	if err := store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("expected error for missing job")
	}
}

func TestQueuePublishAndConsume(t *testing.T) {
	store := NewStore()
	queue := NewQueue(10, 2, store)
	defer queue.Close()

	ctx := context.Background()
	done := make(chan string, 1)

	err := queue.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		done <- job.GetID()
		return nil
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ProcessFileJob{FileID: "f1", CompanyID: "c1"}
	if err := queue.PublishProcessFile(ctx, job); err != nil {
		t.Fatalf("PublishProcessFile() error = %v", err)
	}
	if job.JobID == "" {
		t.Error("expected generated job ID")
	}
	if job.MaxRetries != defaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", job.MaxRetries, defaultMaxRetries)
	}

	select {
	case id := <-done:
		if id != job.JobID {
			t.Errorf("handled job %s, want %s", id, job.JobID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job was not consumed")
	}
}

func TestQueuePublishAfterClose(t *testing.T) {
	queue := NewQueue(1, 1, nil)
	if err := queue.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	err := queue.PublishProcessFile(context.Background(), &jobs.ProcessFileJob{FileID: "f1"})
	if err == nil {
		t.Error("expected error publishing to closed queue")
	}
}
