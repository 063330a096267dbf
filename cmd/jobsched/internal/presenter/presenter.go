// Package presenter renders jobs and scheduler outcomes as operator text.
package presenter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"jobsched/cmd/jobsched/internal/scheduler"
	"jobsched/pkg/jobqueue"
)

var (
	rule   = strings.Repeat("-", 45)
	banner = strings.Repeat("=", 45)
)

func Job(w io.Writer, j jobqueue.Job) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Job ID       : %d\n", j.ID)
	fmt.Fprintf(w, "Name         : %s\n", j.Name)
	fmt.Fprintf(w, "Priority     : %s (%d)\n", j.Priority, int(j.Priority))
	fmt.Fprintf(w, "Burst Time   : %d\n", j.BurstTime)
	fmt.Fprintf(w, "Arrival Order: %d\n", j.ArrivalOrder)
	fmt.Fprintln(w, rule)
}

func Menu(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintln(w, "         Job Scheduler (Priority Queue)      ")
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "1. Add Job")
	fmt.Fprintln(w, "2. Execute Highest Priority Job")
	fmt.Fprintln(w, "3. View All Jobs")
	fmt.Fprintln(w, "4. Exit")
	fmt.Fprintln(w, rule)
	fmt.Fprint(w, "Enter your choice: ")
}

func Help(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <low|medium|high|1-3> <burst> [name]   queue a job")
	fmt.Fprintln(w, "  execute                                   run the highest priority job")
	fmt.Fprintln(w, "  view                                      list jobs in heap order")
	fmt.Fprintln(w, "  sorted                                    list jobs in execution order")
	fmt.Fprintln(w, "  history                                   list executed jobs")
	fmt.Fprintln(w, "  status <id>                               show where a job is")
	fmt.Fprintln(w, "  stats                                     queue usage")
	fmt.Fprintln(w, "  exit                                      leave")
}

func InvalidPriority(w io.Writer) {
	fmt.Fprintf(w, "Invalid priority! Setting to %s (%d).\n", jobqueue.Low, int(jobqueue.Low))
}

func Added(w io.Writer, j jobqueue.Job, normalized bool) {
	if normalized {
		InvalidPriority(w)
	}
	fmt.Fprintf(w, "Job added successfully with ID %d.\n", j.ID)
}

func Executed(w io.Writer, j jobqueue.Job) {
	fmt.Fprintln(w, "\n=== Executing Job ===")
	Job(w, j)
	fmt.Fprintf(w, "Job %d executed successfully.\n", j.ID)
}

// Queue lists jobs as the heap stores them. Only the first one is guaranteed
// to be the next to run.
func Queue(w io.Writer, jobs []jobqueue.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs in the scheduler.")
		return
	}
	fmt.Fprintln(w, "\n=== Current Jobs in Priority Queue ===")
	fmt.Fprintln(w, "(Note: Display order is heap order, not sorted.)")
	for i, j := range jobs {
		fmt.Fprintf(w, "\nJob at position %d in heap:\n", i+1)
		Job(w, j)
	}
}

func Sorted(w io.Writer, jobs []jobqueue.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs in the scheduler.")
		return
	}
	fmt.Fprintln(w, "\n=== Jobs in Execution Order ===")
	for i, j := range jobs {
		fmt.Fprintf(w, "\n#%d to run:\n", i+1)
		Job(w, j)
	}
}

func History(w io.Writer, jobs []jobqueue.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs executed yet.")
		return
	}
	fmt.Fprintln(w, "\n=== Executed Jobs ===")
	for _, j := range jobs {
		Job(w, j)
	}
}

func Status(w io.Writer, id int, state scheduler.JobState, j jobqueue.Job) {
	if state == scheduler.Unknown {
		fmt.Fprintf(w, "Job %d not found.\n", id)
		return
	}
	fmt.Fprintf(w, "Job %d is %s.\n", id, state)
	Job(w, j)
}

func Stats(w io.Writer, st scheduler.Stats) {
	fmt.Fprintf(w, "Pending jobs : %d/%d\n", st.Pending, st.Capacity)
	fmt.Fprintf(w, "Executed jobs: %d\n", st.Executed)
}

func Goodbye(w io.Writer) {
	fmt.Fprintln(w, "Exiting Job Scheduler. Goodbye!")
}

func InvalidChoice(w io.Writer) {
	fmt.Fprintln(w, "Invalid choice. Please try again.")
}

// Failure turns an error from the scheduler into the text the operator sees.
func Failure(w io.Writer, err error) {
	switch {
	case errors.Is(err, jobqueue.ErrCapacityExceeded):
		fmt.Fprintln(w, "Job queue is full! Cannot add more jobs.")
	case errors.Is(err, jobqueue.ErrQueueEmpty):
		fmt.Fprintln(w, "No jobs available to execute.")
	case errors.Is(err, scheduler.ErrStopped):
		fmt.Fprintln(w, "Scheduler is shutting down.")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
