package main

import (
	"context"
	"fmt"
	"io"

	"jobsched/cmd/jobsched/internal/command"
	"jobsched/cmd/jobsched/internal/presenter"
	"jobsched/cmd/jobsched/internal/scheduler"
)

// dispatch runs cmd against the scheduler and writes the outcome to w. It
// returns false once the operator asked to leave.
func dispatch(ctx context.Context, s *scheduler.Scheduler, w io.Writer, cmd command.Command) bool {
	switch cmd.Kind {
	case command.Add:
		if !cmd.HasArgs {
			presenter.Failure(w, fmt.Errorf("%w: usage: add <priority> <burst> [name]", command.ErrMalformed))
			return true
		}
		job, normalized, err := s.Add(ctx, cmd.Name, cmd.Priority, cmd.Burst)
		if err != nil {
			presenter.Failure(w, err)
			return true
		}
		presenter.Added(w, job, normalized)

	case command.Execute:
		job, err := s.Execute(ctx)
		if err != nil {
			presenter.Failure(w, err)
			return true
		}
		presenter.Executed(w, job)

	case command.View:
		jobs, err := s.View(ctx)
		if err != nil {
			presenter.Failure(w, err)
			return true
		}
		presenter.Queue(w, jobs)

	case command.Sorted:
		jobs, err := s.Sorted(ctx)
		if err != nil {
			presenter.Failure(w, err)
			return true
		}
		presenter.Sorted(w, jobs)

	case command.History:
		jobs, err := s.History(ctx)
		if err != nil {
			presenter.Failure(w, err)
			return true
		}
		presenter.History(w, jobs)

	case command.Status:
		state, job, err := s.Status(ctx, cmd.ID)
		if err != nil {
			presenter.Failure(w, err)
			return true
		}
		presenter.Status(w, cmd.ID, state, job)

	case command.Stats:
		st, err := s.Stats(ctx)
		if err != nil {
			presenter.Failure(w, err)
			return true
		}
		presenter.Stats(w, st)

	case command.Help:
		presenter.Help(w)

	case command.Exit:
		presenter.Goodbye(w)
		return false

	default:
		presenter.InvalidChoice(w)
	}
	return true
}
