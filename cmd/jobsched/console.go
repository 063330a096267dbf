package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"jobsched/cmd/jobsched/internal/command"
	"jobsched/cmd/jobsched/internal/presenter"
	"jobsched/cmd/jobsched/internal/scheduler"
)

type console struct {
	s   *scheduler.Scheduler
	in  *bufio.Scanner
	out io.Writer
}

// runConsole is the interactive menu. A bare "1" or "add" prompts for the job
// fields one by one, the one line commands work as well.
func runConsole(ctx context.Context, s *scheduler.Scheduler, in io.Reader, out io.Writer) error {
	c := &console{s: s, in: bufio.NewScanner(in), out: out}

	done := make(chan error, 1)
	go func() {
		done <- c.loop(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// stdin can't be interrupted, leave the reader behind
		presenter.Goodbye(out)
		return nil
	}
}

func (c *console) loop(ctx context.Context) error {
	for {
		presenter.Menu(c.out)
		line, ok := c.readLine()
		if !ok {
			return c.in.Err()
		}

		cmd, err := command.Parse(line)
		if errors.Is(err, command.ErrUnknownCommand) || strings.TrimSpace(line) == "" {
			presenter.InvalidChoice(c.out)
			continue
		} else if err != nil {
			presenter.Failure(c.out, err)
			continue
		}

		if cmd.Kind == command.Add && !cmd.HasArgs {
			cmd, ok = c.promptAdd()
			if !ok {
				return c.in.Err()
			}
		}

		if !dispatch(ctx, c.s, c.out, cmd) {
			return nil
		}
	}
}

func (c *console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

// promptAdd asks for the fields of a new job. Unreadable numbers fall back to
// 0, which the job factory turns into Low priority and zero burst.
func (c *console) promptAdd() (command.Command, bool) {
	fmt.Fprint(c.out, "Enter job name/description: ")
	jobName, ok := c.readLine()
	if !ok {
		return command.Command{}, false
	}

	fmt.Fprint(c.out, "Select priority (1 = Low, 2 = Medium, 3 = High): ")
	line, ok := c.readLine()
	if !ok {
		return command.Command{}, false
	}
	priority, err := command.ParsePriority(line)
	if err != nil {
		priority = 0
	}

	fmt.Fprint(c.out, "Enter burst time (e.g., required CPU time): ")
	line, ok = c.readLine()
	if !ok {
		return command.Command{}, false
	}
	burst, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		burst = 0
	}

	return command.Command{
		Kind:     command.Add,
		HasArgs:  true,
		Name:     jobName,
		Priority: priority,
		Burst:    burst,
	}, true
}
