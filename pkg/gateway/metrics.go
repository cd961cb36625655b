package gateway

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-entityform/pkg/model"
)

// Metrics groups the collectors recorded by instrumented collections.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the gateway collectors and registers them with reg. A
// nil registerer leaves them unregistered, which suits tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entityform",
			Subsystem: "gateway",
			Name:      "operations_total",
			Help:      "Gateway operations by collection, operation and outcome.",
		}, []string{"collection", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "entityform",
			Subsystem: "gateway",
			Name:      "operation_duration_seconds",
			Help:      "Gateway operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "operation"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.operations, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Operations exposes the counter vector, mainly for tests.
func (m *Metrics) Operations() *prometheus.CounterVec {
	return m.operations
}

// Instrument wraps every collection resolved from store.
func (m *Metrics) Instrument(store Store) Store {
	return StoreFunc(func(name string) Collection {
		return m.InstrumentCollection(name, store.Collection(name))
	})
}

// InstrumentCollection wraps a single collection.
func (m *Metrics) InstrumentCollection(name string, next Collection) Collection {
	if next == nil {
		return nil
	}
	return &instrumented{name: name, next: next, metrics: m}
}

type instrumented struct {
	name    string
	next    Collection
	metrics *Metrics
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	i.metrics.operations.WithLabelValues(i.name, op, outcome).Inc()
	i.metrics.duration.WithLabelValues(i.name, op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Create(ctx context.Context, values model.Record) (id string, err error) {
	defer func(start time.Time) { i.observe("create", start, err) }(time.Now())
	return i.next.Create(ctx, values)
}

func (i *instrumented) Update(ctx context.Context, id string, values model.Record) (err error) {
	defer func(start time.Time) { i.observe("update", start, err) }(time.Now())
	return i.next.Update(ctx, id, values)
}

func (i *instrumented) GetByID(ctx context.Context, id string) (record model.Record, err error) {
	defer func(start time.Time) { i.observe("get", start, err) }(time.Now())
	return i.next.GetByID(ctx, id)
}

func (i *instrumented) List(ctx context.Context) (records []model.Record, err error) {
	defer func(start time.Time) { i.observe("list", start, err) }(time.Now())
	return i.next.List(ctx)
}
