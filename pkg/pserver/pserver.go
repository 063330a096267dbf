package pserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const name = "jobsched/pserver"

var (
	tracer = otel.Tracer(name)
	logger = otelslog.NewLogger(name)
)

type HandlerFunc func(ctx context.Context, conn net.Conn)

type Middleware func(next HandlerFunc) HandlerFunc

// ListenServe binds port and serves connections with handler until ctx is done
func ListenServe(ctx context.Context, handler HandlerFunc, port int) error {
	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d, %w", port, err)
	}
	return Serve(ctx, ln, handler)
}

// Serve accepts connections until ctx is done. Open connections are closed
// when ctx is done and Serve waits for their handlers before returning.
func Serve(ctx context.Context, ln net.Listener, handler HandlerFunc) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	logger.InfoContext(ctx, "Server started", "address", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				logger.InfoContext(ctx, "Server stopped accepting connections")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			logger.WarnContext(ctx, "Cannot accept connection", "error", err)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			closeConn := context.AfterFunc(ctx, func() {
				conn.Close()
			})
			defer closeConn()
			handler(ctx, conn)
		}()
	}
}

func WithMiddleware(handler HandlerFunc, ms ...Middleware) HandlerFunc {
	for i := len(ms) - 1; i >= 0; i-- {
		handler = ms[i](handler)
	}
	return handler
}

func LoggingMiddleware(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, conn net.Conn) {
		logger.InfoContext(ctx, "New connection", "address", conn.RemoteAddr().String())
		next(ctx, conn)
		logger.InfoContext(ctx, "End of connection", "address", conn.RemoteAddr().String())
	}
}

// TracingMiddleware wraps every connection in its own span.
func TracingMiddleware(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, conn net.Conn) {
		ctx, span := tracer.Start(
			ctx,
			"client-connection",
			trace.WithAttributes(attribute.String("client-address", conn.RemoteAddr().String())),
		)
		defer span.End()
		next(ctx, conn)
	}
}

func HandleConnShutdown(ctx context.Context, conn net.Conn) {
	err := conn.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		logger.WarnContext(ctx, "Error when closing connection", "error", err)
	}
}
