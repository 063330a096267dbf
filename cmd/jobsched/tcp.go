package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"

	"jobsched/cmd/jobsched/internal/command"
	"jobsched/cmd/jobsched/internal/presenter"
	"jobsched/cmd/jobsched/internal/scheduler"
	"jobsched/pkg/pserver"
)

var idGenClient atomic.Int32

func newClientId() int {
	return int(idGenClient.Add(1))
}

// newConnHandler serves the line protocol: one command per line, the reply is
// the same text the console prints.
func newConnHandler(s *scheduler.Scheduler) pserver.HandlerFunc {
	return func(ctx context.Context, conn net.Conn) {
		clientId := newClientId()
		logger.InfoContext(ctx, "Client connected", "client-id", clientId)

		defer func() {
			logger.InfoContext(ctx, "Client disconnecting", "client-id", clientId)
			pserver.HandleConnShutdown(ctx, conn)
		}()

		br := bufio.NewReader(conn)
		for {
			line, err := br.ReadString('\n')
			if errors.Is(err, io.EOF) && line == "" {
				return
			} else if err != nil && !errors.Is(err, io.EOF) {
				logger.WarnContext(ctx, "Error reading request", "client-id", clientId, "error", err)
				return
			}

			cmd, perr := command.Parse(line)
			if perr != nil {
				logger.InfoContext(ctx, "Invalid request", "client-id", clientId, "error", perr)
				presenter.Failure(conn, perr)
				if err != nil {
					return
				}
				continue
			}

			if !dispatch(ctx, s, conn, cmd) || err != nil {
				return
			}
		}
	}
}
