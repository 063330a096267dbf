package scheduler

import (
	"jobsched/pkg/jobqueue"

	"github.com/huandu/skiplist"
)

// SortByPriority returns jobs in the order they would be executed. Arrival
// stamps are unique so no two keys compare equal.
func SortByPriority(jobs []jobqueue.Job) []jobqueue.Job {
	list := skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
		a, b := lhs.(jobqueue.Job), rhs.(jobqueue.Job)
		switch {
		case jobqueue.HigherPriority(a, b):
			return -1
		case jobqueue.HigherPriority(b, a):
			return 1
		default:
			return 0
		}
	}))

	for _, j := range jobs {
		list.Set(j, struct{}{})
	}

	sorted := make([]jobqueue.Job, 0, list.Len())
	for e := list.Front(); e != nil; e = e.Next() {
		sorted = append(sorted, e.Key().(jobqueue.Job))
	}
	return sorted
}
