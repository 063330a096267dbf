// Package command parses the operator command language shared by the console
// menu and the TCP front end.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMalformed      = errors.New("malformed command")
)

type Kind int

const (
	Add Kind = iota + 1
	Execute
	View
	Sorted
	History
	Status
	Stats
	Help
	Exit
)

var kindNames = map[Kind]string{
	Add:     "add",
	Execute: "execute",
	View:    "view",
	Sorted:  "sorted",
	History: "history",
	Status:  "status",
	Stats:   "stats",
	Help:    "help",
	Exit:    "exit",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

var keywords = map[string]Kind{
	"1":       Add,
	"add":     Add,
	"2":       Execute,
	"execute": Execute,
	"exec":    Execute,
	"3":       View,
	"view":    View,
	"sorted":  Sorted,
	"history": History,
	"stats":   Stats,
	"help":    Help,
	"?":       Help,
	"4":       Exit,
	"exit":    Exit,
	"quit":    Exit,
}

type Command struct {
	Kind Kind
	// HasArgs is false for a bare "add" that expects the fields to be prompted for
	HasArgs  bool
	Priority int
	Burst    int
	Name     string
	ID       int
}

var (
	addRe    = regexp2.MustCompile(`^\s*(?:add|1)\s+(?<priority>\S+)\s+(?<burst>-?\d+)(?:\s+(?<name>.*?))?\s*$`, regexp2.IgnoreCase)
	statusRe = regexp2.MustCompile(`^\s*status(?:\s+(?<id>\S+))?\s*$`, regexp2.IgnoreCase)
)

// Parse reads a single command line.
func Parse(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	word := strings.ToLower(strings.TrimSpace(line))
	if word == "" {
		return Command{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	if kind, ok := keywords[word]; ok {
		return Command{Kind: kind}, nil
	}

	if m, err := addRe.FindStringMatch(line); err != nil {
		return Command{}, fmt.Errorf("match add: %w", err)
	} else if m != nil {
		return parseAdd(m)
	}

	if m, err := statusRe.FindStringMatch(line); err != nil {
		return Command{}, fmt.Errorf("match status: %w", err)
	} else if m != nil {
		id, err := strconv.Atoi(group(m, "id"))
		if err != nil || id < 1 {
			return Command{}, fmt.Errorf("%w: id must be a positive number, got %q", ErrMalformed, group(m, "id"))
		}
		return Command{Kind: Status, HasArgs: true, ID: id}, nil
	}

	first, _, _ := strings.Cut(word, " ")
	if _, ok := keywords[first]; ok {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, first)
}

func parseAdd(m *regexp2.Match) (Command, error) {
	pri, err := ParsePriority(group(m, "priority"))
	if err != nil {
		return Command{}, err
	}
	burst, err := strconv.Atoi(group(m, "burst"))
	if err != nil {
		return Command{}, fmt.Errorf("%w: burst time: %v", ErrMalformed, err)
	}
	if burst < 0 {
		return Command{}, fmt.Errorf("%w: burst time should be non-negative, but is %d", ErrMalformed, burst)
	}

	return Command{
		Kind:     Add,
		HasArgs:  true,
		Priority: pri,
		Burst:    burst,
		Name:     group(m, "name"),
	}, nil
}

func group(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil || len(g.Captures) == 0 {
		return ""
	}
	return g.String()
}

// ParsePriority accepts a number or a priority word. Numbers are returned as
// is, out of range values are left for the job factory to normalize.
func ParsePriority(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "l", "low":
		return 1, nil
	case "m", "medium":
		return 2, nil
	case "h", "high":
		return 3, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: priority %q is neither a number nor low/medium/high", ErrMalformed, s)
	}
	return n, nil
}
