package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"jobsched/pkg/jobqueue"
)

func startScheduler(t *testing.T, capacity int) *Scheduler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	s := New(capacity)
	go s.Run(ctx)
	t.Cleanup(cancel)
	return s
}

func TestAddExecuteOrder(t *testing.T) {
	s := startScheduler(t, jobqueue.MaxCapacity)
	ctx := context.Background()

	s.Add(ctx, "A", int(jobqueue.High), 1)
	s.Add(ctx, "B", int(jobqueue.Low), 2)
	s.Add(ctx, "C", int(jobqueue.High), 3)

	for _, want := range []string{"A", "C", "B"} {
		job, err := s.Execute(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v\n", err)
		}
		if job.Name != want {
			t.Errorf("expected %q, got %q\n", want, job.Name)
		}
	}

	_, err := s.Execute(ctx)
	if !errors.Is(err, jobqueue.ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v\n", err)
	}

	history, _ := s.History(ctx)
	if len(history) != 3 {
		t.Fatalf("expected 3 executed jobs, got %d\n", len(history))
	}
	for i, j := range history {
		if j.ID != i+1 {
			t.Errorf("history should be in id order, position %d has id %d\n", i, j.ID)
		}
	}
}

func TestAddNormalizesPriority(t *testing.T) {
	s := startScheduler(t, 4)

	job, normalized, err := s.Add(context.Background(), "odd", 5, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n", err)
	}
	if !normalized {
		t.Error("priority 5 should be reported as normalized")
	}
	if job.Priority != jobqueue.Low {
		t.Errorf("expected Low, got %v\n", job.Priority)
	}
}

func TestAddWhenFull(t *testing.T) {
	s := startScheduler(t, 2)
	ctx := context.Background()

	s.Add(ctx, "one", 1, 1)
	s.Add(ctx, "two", 1, 1)

	_, _, err := s.Add(ctx, "three", 1, 1)
	if !errors.Is(err, jobqueue.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v\n", err)
	}

	s.Execute(ctx)
	job, _, err := s.Add(ctx, "four", 1, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v\n", err)
	}
	// the refused add must not burn an id
	if job.ID != 3 {
		t.Errorf("expected id 3, got %d\n", job.ID)
	}
}

func TestStatus(t *testing.T) {
	s := startScheduler(t, 4)
	ctx := context.Background()

	s.Add(ctx, "first", 3, 1)
	s.Add(ctx, "second", 1, 1)
	s.Execute(ctx)

	tests := []struct {
		id   int
		want JobState
	}{
		{1, Executed},
		{2, Pending},
		{3, Unknown},
	}
	for _, tt := range tests {
		state, _, err := s.Status(ctx, tt.id)
		if err != nil {
			t.Fatalf("Unexpected error: %v\n", err)
		}
		if state != tt.want {
			t.Errorf("job %d: expected %v, got %v\n", tt.id, tt.want, state)
		}
	}

	st, _ := s.Stats(ctx)
	if st.Pending != 1 || st.Executed != 1 || st.Capacity != 4 {
		t.Errorf("unexpected stats: %+v\n", st)
	}
}

func TestConcurrentClients(t *testing.T) {
	s := startScheduler(t, jobqueue.MaxCapacity)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				s.Add(ctx, "c", 2, 1)
			}
		}()
	}
	wg.Wait()

	st, _ := s.Stats(ctx)
	if st.Pending != jobqueue.MaxCapacity {
		t.Fatalf("expected %d pending jobs, got %d\n", jobqueue.MaxCapacity, st.Pending)
	}

	last := 0
	for range jobqueue.MaxCapacity {
		job, err := s.Execute(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v\n", err)
		}
		if job.ArrivalOrder <= last {
			t.Fatalf("arrival order went back from %d to %d\n", last, job.ArrivalOrder)
		}
		last = job.ArrivalOrder
	}
}

func TestStoppedScheduler(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(4)
	stopped := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	if _, err := s.Execute(context.Background()); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v\n", err)
	}
}

func TestSortByPriority(t *testing.T) {
	jobs := []jobqueue.Job{
		{ID: 1, Priority: jobqueue.Low, ArrivalOrder: 1},
		{ID: 2, Priority: jobqueue.High, ArrivalOrder: 2},
		{ID: 3, Priority: jobqueue.Medium, ArrivalOrder: 3},
		{ID: 4, Priority: jobqueue.High, ArrivalOrder: 4},
	}

	sorted := SortByPriority(jobs)
	want := []int{2, 4, 3, 1}
	if len(sorted) != len(want) {
		t.Fatalf("expected %d jobs, got %d\n", len(want), len(sorted))
	}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("position %d: expected id %d, got %d\n", i, id, sorted[i].ID)
		}
	}
}
