// Package metrics records labeled counters on a Prometheus registry and takes
// point-in-time snapshots of them.
package metrics

import (
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registry owns a set of counter families. It is safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	reg  *prometheus.Registry
	vecs map[string]*family
}

type family struct {
	vec    *prometheus.CounterVec
	labels []string
}

// NewRegistry creates an empty registry backed by its own
// prometheus.Registry.
func NewRegistry() *Registry {
	return &Registry{
		reg:  prometheus.NewRegistry(),
		vecs: make(map[string]*family),
	}
}

// Gatherer exposes the underlying registry, e.g. for an HTTP handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Counter returns the counter for name and the given label combination,
// creating the family on first use. Every later call for the same name must
// use the same label names.
func (r *Registry) Counter(name string, labels map[string]string) (prometheus.Counter, error) {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)

	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.vecs[name]
	if !ok {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: "Counter " + name + ".",
		}, names)
		if err := r.reg.Register(vec); err != nil {
			return nil, fmt.Errorf("registering %s: %w", name, err)
		}
		f = &family{vec: vec, labels: names}
		r.vecs[name] = f
	} else if strings.Join(f.labels, ",") != strings.Join(names, ",") {
		return nil, fmt.Errorf("counter %s has labels [%s], got [%s]",
			name, strings.Join(f.labels, ","), strings.Join(names, ","))
	}

	return f.vec.GetMetricWith(labels)
}

// Inc increments the counter for name and labels.
func (r *Registry) Inc(name string, labels map[string]string) error {
	c, err := r.Counter(name, labels)
	if err != nil {
		return err
	}
	c.Inc()
	return nil
}

// Reset drops every recorded series. Families stay registered.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.vecs {
		f.vec.Reset()
	}
}

// Sample is one counter series in a Snapshot.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

func (s Sample) String() string {
	keys := make([]string, 0, len(s.Labels))
	for k := range s.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, s.Labels[k])
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, strings.Join(pairs, ","), s.Value)
}

// Snapshot is the state of a registry at one point in time.
type Snapshot struct {
	samples []Sample
}

// Snapshot gathers every series currently recorded.
func (r *Registry) Snapshot() (*Snapshot, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			samples = append(samples, sampleOf(mf.GetName(), m))
		}
	}
	return &Snapshot{samples: samples}, nil
}

func sampleOf(name string, m *dto.Metric) Sample {
	labels := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	return Sample{Name: name, Labels: labels, Value: m.GetCounter().GetValue()}
}

// Len returns the number of distinct label combinations in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.samples)
}

// SizeHint returns the lower and upper bound of the number of samples All
// yields. A snapshot is fixed, so both bounds are exact.
func (s *Snapshot) SizeHint() (lower, upper int) {
	return len(s.samples), len(s.samples)
}

// All iterates over the samples, sorted by family name then by labels.
func (s *Snapshot) All() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for _, sample := range s.samples {
			if !yield(sample) {
				return
			}
		}
	}
}

// Value returns the value of the series matching name and labels.
func (s *Snapshot) Value(name string, labels map[string]string) (float64, bool) {
	for _, sample := range s.samples {
		if sample.Name == name && sameLabels(sample.Labels, labels) {
			return sample.Value, true
		}
	}
	return 0, false
}

func sameLabels(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
