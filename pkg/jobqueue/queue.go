package jobqueue

import (
	"container/heap"
	"errors"
	"slices"
)

var (
	ErrCapacityExceeded = errors.New("job queue is full")
	ErrQueueEmpty       = errors.New("no jobs in queue")
)

// jobHeap keeps the highest priority job at index 0. Children of i live at
// 2i+1 and 2i+2.
type jobHeap []Job

func (jh jobHeap) Len() int { return len(jh) }

func (jh jobHeap) Less(i, j int) bool {
	return HigherPriority(jh[i], jh[j])
}

func (jh jobHeap) Swap(i, j int) {
	jh[i], jh[j] = jh[j], jh[i]
}

func (jh *jobHeap) Push(x any) {
	*jh = append(*jh, x.(Job))
}

func (jh *jobHeap) Pop() any {
	old := *jh
	n := len(old)
	job := old[n-1]
	old[n-1] = Job{}
	*jh = old[0 : n-1]
	return job
}

// PriorityJobQueue is a bounded max-heap of jobs. It is not safe for
// concurrent use, callers that share it must serialize access.
type PriorityJobQueue struct {
	jobs     jobHeap
	capacity int
}

// NewPriorityJobQueue returns an empty queue. A capacity <= 0 means MaxCapacity.
func NewPriorityJobQueue(capacity int) *PriorityJobQueue {
	if capacity <= 0 {
		capacity = MaxCapacity
	}
	return &PriorityJobQueue{
		jobs:     make(jobHeap, 0, capacity),
		capacity: capacity,
	}
}

func (q *PriorityJobQueue) Len() int { return len(q.jobs) }

func (q *PriorityJobQueue) Cap() int { return q.capacity }

func (q *PriorityJobQueue) IsEmpty() bool { return len(q.jobs) == 0 }

func (q *PriorityJobQueue) IsFull() bool { return len(q.jobs) == q.capacity }

// Insert adds job and sifts it up past every parent it outranks.
func (q *PriorityJobQueue) Insert(job Job) error {
	if q.IsFull() {
		return ErrCapacityExceeded
	}
	heap.Push(&q.jobs, job)
	return nil
}

// ExtractMax removes and returns the highest priority job. The last element
// takes the root's place and sifts down, a child only displaces its parent
// when it is strictly higher priority.
func (q *PriorityJobQueue) ExtractMax() (Job, error) {
	if q.IsEmpty() {
		return Job{}, ErrQueueEmpty
	}
	return heap.Pop(&q.jobs).(Job), nil
}

func (q *PriorityJobQueue) Peek() (Job, error) {
	if q.IsEmpty() {
		return Job{}, ErrQueueEmpty
	}
	return q.jobs[0], nil
}

// PeekAll returns a copy of the queue in heap order. The result is NOT sorted
// by priority, only the first element is guaranteed to be the maximum.
func (q *PriorityJobQueue) PeekAll() []Job {
	return slices.Clone(q.jobs)
}

func (q *PriorityJobQueue) Contains(id int) (Job, bool) {
	i := slices.IndexFunc(q.jobs, func(j Job) bool { return j.ID == id })
	if i < 0 {
		return Job{}, false
	}
	return q.jobs[i], true
}
