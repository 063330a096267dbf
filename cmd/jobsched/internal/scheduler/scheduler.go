package scheduler

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"jobsched/pkg/jobqueue"

	"github.com/huandu/skiplist"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const name = "jobsched/scheduler"

var (
	tracer = otel.Tracer(name)
	logger = otelslog.NewLogger(name)
)

var ErrStopped = errors.New("scheduler stopped")

type JobState int

const (
	Unknown JobState = iota
	Pending
	Executed
)

func (s JobState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}

type Stats struct {
	Pending  int
	Capacity int
	Executed int
}

// Scheduler owns a queue and a factory. Every public call is turned into a
// closure and run on the actor goroutine started by Run, so the queue only ever
// sees one caller even when many connections share the scheduler.
type Scheduler struct {
	queue   *jobqueue.PriorityJobQueue
	factory *jobqueue.JobFactory
	// history holds executed jobs ordered by id
	history *skiplist.SkipList

	actionChan chan func()
	done       chan struct{}
	metrics    *instruments
}

func New(capacity int) *Scheduler {
	return &Scheduler{
		queue:   jobqueue.NewPriorityJobQueue(capacity),
		factory: jobqueue.NewJobFactory(),
		history: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			return cmp.Compare(lhs.(int), rhs.(int))
		})),
		actionChan: make(chan func()),
		done:       make(chan struct{}),
		metrics:    newInstruments(),
	}
}

// Run is the actor loop, it returns when ctx is done. Calls made after that
// fail with ErrStopped.
func (s *Scheduler) Run(ctx context.Context) {
	logger.InfoContext(ctx, "Scheduler started", "capacity", s.queue.Cap())
	for {
		select {
		case f := <-s.actionChan:
			f()
		case <-ctx.Done():
			close(s.done)
			logger.InfoContext(ctx, "Scheduler stopped",
				"pending", s.queue.Len(),
				"executed", s.history.Len(),
			)
			return
		}
	}
}

func (s *Scheduler) do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	action := func() {
		f()
		close(finished)
	}

	select {
	case s.actionChan <- action:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	<-finished
	return nil
}

// Add creates a job and queues it. A full queue is refused before any id is
// minted. The returned bool is true when the requested priority was out of
// range and the job was queued as Low.
func (s *Scheduler) Add(ctx context.Context, jobName string, priority int, burst int) (jobqueue.Job, bool, error) {
	ctx, span := tracer.Start(ctx, "add", trace.WithAttributes(
		attribute.Int("requested-priority", priority),
		attribute.Int("burst", burst),
	))
	defer span.End()

	_, normalized := jobqueue.NormalizePriority(priority)

	var (
		job    jobqueue.Job
		addErr error
	)
	err := s.do(ctx, func() {
		if s.queue.IsFull() {
			addErr = jobqueue.ErrCapacityExceeded
			return
		}
		job = s.factory.Create(jobName, priority, burst)
		addErr = s.queue.Insert(job)
	})
	if err != nil {
		return jobqueue.Job{}, false, err
	}
	if addErr != nil {
		s.metrics.rejected(ctx)
		span.RecordError(addErr)
		logger.WarnContext(ctx, "Job rejected", "name", jobName, "error", addErr)
		return jobqueue.Job{}, false, fmt.Errorf("add %q: %w", jobName, addErr)
	}

	s.metrics.added(ctx, job)
	span.SetAttributes(attribute.Int("job-id", job.ID))
	if normalized {
		logger.WarnContext(ctx, "Invalid priority, job queued as Low",
			"id", job.ID,
			"requested", priority,
		)
	}
	logger.InfoContext(ctx, "Job added",
		"id", job.ID,
		"priority", job.Priority.String(),
		"arrival", job.ArrivalOrder,
	)

	return job, normalized, nil
}

// Execute removes the highest priority job and records it in the history.
func (s *Scheduler) Execute(ctx context.Context) (jobqueue.Job, error) {
	ctx, span := tracer.Start(ctx, "execute")
	defer span.End()

	var (
		job     jobqueue.Job
		execErr error
	)
	err := s.do(ctx, func() {
		job, execErr = s.queue.ExtractMax()
		if execErr == nil {
			s.history.Set(job.ID, job)
		}
	})
	if err != nil {
		return jobqueue.Job{}, err
	}
	if execErr != nil {
		logger.InfoContext(ctx, "Nothing to execute")
		return jobqueue.Job{}, execErr
	}

	s.metrics.executed(ctx, job)
	span.SetAttributes(attribute.Int("job-id", job.ID))
	logger.InfoContext(ctx, "Job executed",
		"id", job.ID,
		"priority", job.Priority.String(),
		"burst", job.BurstTime,
	)

	return job, nil
}

// View returns the pending jobs in heap order.
func (s *Scheduler) View(ctx context.Context) ([]jobqueue.Job, error) {
	var jobs []jobqueue.Job
	err := s.do(ctx, func() {
		jobs = s.queue.PeekAll()
	})
	return jobs, err
}

// Sorted returns the pending jobs in the order Execute would hand them out.
func (s *Scheduler) Sorted(ctx context.Context) ([]jobqueue.Job, error) {
	jobs, err := s.View(ctx)
	if err != nil {
		return nil, err
	}
	return SortByPriority(jobs), nil
}

func (s *Scheduler) History(ctx context.Context) ([]jobqueue.Job, error) {
	var jobs []jobqueue.Job
	err := s.do(ctx, func() {
		jobs = make([]jobqueue.Job, 0, s.history.Len())
		for e := s.history.Front(); e != nil; e = e.Next() {
			jobs = append(jobs, e.Value.(jobqueue.Job))
		}
	})
	return jobs, err
}

func (s *Scheduler) Status(ctx context.Context, id int) (JobState, jobqueue.Job, error) {
	var (
		state JobState
		job   jobqueue.Job
	)
	err := s.do(ctx, func() {
		if j, ok := s.queue.Contains(id); ok {
			state, job = Pending, j
			return
		}
		if e := s.history.Get(id); e != nil {
			state, job = Executed, e.Value.(jobqueue.Job)
		}
	})
	return state, job, err
}

func (s *Scheduler) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.do(ctx, func() {
		st = Stats{
			Pending:  s.queue.Len(),
			Capacity: s.queue.Cap(),
			Executed: s.history.Len(),
		}
	})
	return st, err
}
