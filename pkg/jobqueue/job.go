package jobqueue

const (
	MaxCapacity = 100
	NameLength  = 50
)

type Priority int

const (
	Low Priority = iota + 1
	Medium
	High
)

func (p Priority) Valid() bool {
	return p >= Low && p <= High
}

func (p Priority) String() string {
	switch p {
	case High:
		return "High"
	case Medium:
		return "Medium"
	default:
		return "Low"
	}
}

// Job is a value record, every hand-off copies it so the queue's copy can't be
// changed from outside.
type Job struct {
	ID           int
	Name         string
	Priority     Priority
	BurstTime    int
	ArrivalOrder int
}

// HigherPriority reports whether a should be served before b. Equal priorities
// are decided by arrival, earlier wins.
func HigherPriority(a, b Job) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.ArrivalOrder < b.ArrivalOrder
}
