package jobqueue

import "strings"

// JobFactory mints jobs with unique ids and arrival stamps. Like the queue it
// expects a single caller.
type JobFactory struct {
	nextID  int
	arrival int
}

func NewJobFactory() *JobFactory {
	return &JobFactory{nextID: 1}
}

// NormalizePriority maps requested onto a Priority. Anything outside Low..High
// becomes Low, the second return value reports that it happened.
func NormalizePriority(requested int) (Priority, bool) {
	p := Priority(requested)
	if !p.Valid() {
		return Low, true
	}
	return p, false
}

// Create consumes one id and one arrival stamp on every call, whether or not
// the job ends up in a queue.
func (f *JobFactory) Create(name string, requested int, burst int) Job {
	priority, _ := NormalizePriority(requested)
	if burst < 0 {
		burst = 0
	}

	f.arrival++
	job := Job{
		ID:           f.nextID,
		Name:         normalizeName(name),
		Priority:     priority,
		BurstTime:    burst,
		ArrivalOrder: f.arrival,
	}
	f.nextID++

	return job
}

func normalizeName(name string) string {
	name = strings.TrimRight(name, "\r\n")
	r := []rune(name)
	if len(r) > NameLength {
		r = r[:NameLength]
	}
	return string(r)
}
