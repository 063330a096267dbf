package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"jobsched/cmd/jobsched/internal/scheduler"
	"jobsched/pkg/jobqueue"
	"jobsched/pkg/pserver"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const name = "jobsched"

var logger = otelslog.NewLogger(name)

var (
	mode       = flag.String("mode", "console", "Front end to run: console or tcp")
	portNumber = flag.Int("port", 4242, "Port number of server")
	capacity   = flag.Int("capacity", jobqueue.MaxCapacity, "Maximum number of pending jobs")
	telemetry  = flag.String("otel", "none", "Telemetry exporter: none, stdout or otlp")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) (err error) {
	if *capacity < 1 {
		return fmt.Errorf("capacity should be positive, but is %d", *capacity)
	}

	shutdown, err := setupOtelSDK(ctx, *telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		err = errors.Join(err, shutdown(context.Background()))
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := scheduler.New(*capacity)
	go s.Run(ctx)

	switch *mode {
	case "console":
		return runConsole(ctx, s, os.Stdin, os.Stdout)
	case "tcp":
		handler := pserver.WithMiddleware(
			newConnHandler(s),
			pserver.TracingMiddleware,
			pserver.LoggingMiddleware,
		)
		logger.InfoContext(ctx, "Starting tcp front end", "port", *portNumber, "capacity", *capacity)
		return pserver.ListenServe(ctx, handler, *portNumber)
	default:
		return fmt.Errorf("unknown mode: %q", *mode)
	}
}
