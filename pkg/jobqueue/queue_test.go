package jobqueue

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func checkHeap(t *testing.T, q *PriorityJobQueue) {
	t.Helper()
	jobs := q.PeekAll()
	for i := 1; i < len(jobs); i++ {
		parent := (i - 1) / 2
		if HigherPriority(jobs[i], jobs[parent]) {
			t.Fatalf("heap broken at %d: child %+v outranks parent %+v\n", i, jobs[i], jobs[parent])
		}
	}
}

func TestExtractOrderScenario(t *testing.T) {
	q := NewPriorityJobQueue(MaxCapacity)

	jobs := []Job{
		{ID: 1, Name: "A", Priority: High, ArrivalOrder: 1},
		{ID: 2, Name: "B", Priority: Low, ArrivalOrder: 2},
		{ID: 3, Name: "C", Priority: High, ArrivalOrder: 3},
	}
	for _, j := range jobs {
		if err := q.Insert(j); err != nil {
			t.Fatalf("Unexpected error: %v\n", err)
		}
	}

	for _, want := range []string{"A", "C", "B"} {
		got, err := q.ExtractMax()
		if err != nil {
			t.Fatalf("Unexpected error: %v\n", err)
		}
		if got.Name != want {
			t.Errorf("expected %q, got %q\n", want, got.Name)
		}
	}

	if !q.IsEmpty() {
		t.Errorf("queue should be empty, but has %d jobs\n", q.Len())
	}
}

func TestCapacityExceeded(t *testing.T) {
	q := NewPriorityJobQueue(MaxCapacity)
	f := NewJobFactory()

	for i := range MaxCapacity {
		if err := q.Insert(f.Create("job", i%3+1, i)); err != nil {
			t.Fatalf("insert %d failed: %v\n", i, err)
		}
	}

	if !q.IsFull() {
		t.Fatalf("queue should be full with %d jobs\n", q.Len())
	}

	err := q.Insert(f.Create("one too many", 3, 1))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v\n", err)
	}
	if q.Len() != MaxCapacity {
		t.Errorf("size should stay %d, but is %d\n", MaxCapacity, q.Len())
	}
	checkHeap(t, q)
}

func TestExtractFromEmpty(t *testing.T) {
	q := NewPriorityJobQueue(0)

	if q.Cap() != MaxCapacity {
		t.Errorf("default capacity should be %d, got %d\n", MaxCapacity, q.Cap())
	}

	_, err := q.ExtractMax()
	if !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v\n", err)
	}
	if q.Len() != 0 {
		t.Errorf("size should stay 0, but is %d\n", q.Len())
	}

	if _, err := q.Peek(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty from Peek, got %v\n", err)
	}
}

func TestHeapInvariantRandomOps(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))
	q := NewPriorityJobQueue(32)
	f := NewJobFactory()

	for range 2000 {
		before := q.Len()
		if r.IntN(3) > 0 {
			err := q.Insert(f.Create("rnd", r.IntN(3)+1, r.IntN(10)))
			switch {
			case err == nil && q.Len() != before+1:
				t.Fatalf("insert should grow size by 1: %d -> %d\n", before, q.Len())
			case err != nil && q.Len() != before:
				t.Fatalf("failed insert changed size: %d -> %d\n", before, q.Len())
			}
		} else {
			want, hasMax := maxOf(q.PeekAll())
			got, err := q.ExtractMax()
			switch {
			case err == nil && q.Len() != before-1:
				t.Fatalf("extract should shrink size by 1: %d -> %d\n", before, q.Len())
			case err != nil && q.Len() != before:
				t.Fatalf("failed extract changed size: %d -> %d\n", before, q.Len())
			case err == nil && hasMax && got != want:
				t.Fatalf("expected max %+v, got %+v\n", want, got)
			}
		}
		checkHeap(t, q)
	}
}

func maxOf(jobs []Job) (Job, bool) {
	if len(jobs) == 0 {
		return Job{}, false
	}
	m := jobs[0]
	for _, j := range jobs[1:] {
		if HigherPriority(j, m) {
			m = j
		}
	}
	return m, true
}

func TestTieBreakIgnoresInsertOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{ID: i + 1, Priority: Medium, ArrivalOrder: i + 1}
	}

	for round := range 10 {
		q := NewPriorityJobQueue(len(jobs))
		for _, i := range r.Perm(len(jobs)) {
			q.Insert(jobs[i])
		}
		for want := 1; want <= len(jobs); want++ {
			got, _ := q.ExtractMax()
			if got.ArrivalOrder != want {
				t.Fatalf("round %d: expected arrival %d, got %d\n", round, want, got.ArrivalOrder)
			}
		}
	}
}

func TestPeekAllIsSnapshot(t *testing.T) {
	q := NewPriorityJobQueue(4)
	q.Insert(Job{ID: 1, Priority: Low, ArrivalOrder: 1})
	q.Insert(Job{ID: 2, Priority: High, ArrivalOrder: 2})

	snap := q.PeekAll()
	if len(snap) != 2 {
		t.Fatalf("expected 2 jobs, got %d\n", len(snap))
	}
	if snap[0].ID != 2 {
		t.Errorf("root should be job 2, got %d\n", snap[0].ID)
	}

	snap[0].Name = "changed"
	top, _ := q.Peek()
	if top.Name == "changed" {
		t.Error("mutating the snapshot should not touch the queue")
	}

	if _, ok := q.Contains(1); !ok {
		t.Error("job 1 should be in the queue")
	}
	if _, ok := q.Contains(3); ok {
		t.Error("job 3 should not be in the queue")
	}
}

func TestHigherPriority(t *testing.T) {
	tests := []struct {
		name string
		a, b Job
		want bool
	}{
		{"higher priority", Job{Priority: High, ArrivalOrder: 9}, Job{Priority: Low, ArrivalOrder: 1}, true},
		{"lower priority", Job{Priority: Low, ArrivalOrder: 1}, Job{Priority: Medium, ArrivalOrder: 9}, false},
		{"earlier arrival", Job{Priority: Medium, ArrivalOrder: 1}, Job{Priority: Medium, ArrivalOrder: 2}, true},
		{"later arrival", Job{Priority: Medium, ArrivalOrder: 2}, Job{Priority: Medium, ArrivalOrder: 1}, false},
		{"irreflexive", Job{Priority: High, ArrivalOrder: 3}, Job{Priority: High, ArrivalOrder: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HigherPriority(tt.a, tt.b); got != tt.want {
				t.Errorf("expected %v, got %v\n", tt.want, got)
			}
		})
	}
}
