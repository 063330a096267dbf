package scheduler

import (
	"context"

	"jobsched/pkg/jobqueue"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type instruments struct {
	addedCount    metric.Int64Counter
	executedCount metric.Int64Counter
	rejectedCount metric.Int64Counter
	depth         metric.Int64UpDownCounter
}

func newInstruments() *instruments {
	var (
		meter    = otel.Meter(name)
		fallback = noop.NewMeterProvider().Meter(name)
		m        = &instruments{}
		err      error
	)

	counter := func(n, desc string) metric.Int64Counter {
		c, cErr := meter.Int64Counter(n, metric.WithDescription(desc), metric.WithUnit("{job}"))
		if cErr != nil {
			err = cErr
			c, _ = fallback.Int64Counter(n)
		}
		return c
	}

	m.addedCount = counter("jobsched.jobs.added", "Jobs accepted into the queue")
	m.executedCount = counter("jobsched.jobs.executed", "Jobs removed from the queue by execute")
	m.rejectedCount = counter("jobsched.jobs.rejected", "Jobs refused because the queue was full")

	depth, dErr := meter.Int64UpDownCounter("jobsched.queue.depth",
		metric.WithDescription("Jobs waiting in the queue"),
		metric.WithUnit("{job}"),
	)
	if dErr != nil {
		err = dErr
		depth, _ = fallback.Int64UpDownCounter("jobsched.queue.depth")
	}
	m.depth = depth

	if err != nil {
		logger.Warn("Could not create metric instruments, using noop", "error", err)
	}
	return m
}

func priorityAttr(j jobqueue.Job) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("priority", j.Priority.String()))
}

func (m *instruments) added(ctx context.Context, j jobqueue.Job) {
	m.addedCount.Add(ctx, 1, priorityAttr(j))
	m.depth.Add(ctx, 1)
}

func (m *instruments) executed(ctx context.Context, j jobqueue.Job) {
	m.executedCount.Add(ctx, 1, priorityAttr(j))
	m.depth.Add(ctx, -1)
}

func (m *instruments) rejected(ctx context.Context) {
	m.rejectedCount.Add(ctx, 1)
}
