// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collector over named ring observers. Values are sampled at
// scrape time from the observers and are best-effort estimates while the
// rings are in use.

package control

import (
	"sort"
	"sync"

	"github.com/momentics/hioload-ring/api"
	"github.com/prometheus/client_golang/prometheus"
)

// RingStats is one sample of a ring observer.
type RingStats struct {
	Capacity int    `json:"capacity"`
	Occupied int    `json:"occupied"`
	Vacant   int    `json:"vacant"`
	Pushed   uint64 `json:"pushed"`
	Popped   uint64 `json:"popped"`
}

// Sample reads obs once.
func Sample(obs api.Observer) RingStats {
	read, write := obs.ReadIndex(), obs.WriteIndex()
	occupied := obs.OccupiedLen()
	return RingStats{
		Capacity: obs.Capacity(),
		Occupied: occupied,
		Vacant:   obs.Capacity() - occupied,
		Pushed:   write,
		Popped:   read,
	}
}

// RingCollector holds named observers and exports them as metrics.
type RingCollector struct {
	mu    sync.RWMutex
	rings map[string]api.Observer

	capacity *prometheus.Desc
	occupied *prometheus.Desc
	vacant   *prometheus.Desc
	pushed   *prometheus.Desc
	popped   *prometheus.Desc
}

var _ prometheus.Collector = (*RingCollector)(nil)

// NewRingCollector creates an empty collector. namespace prefixes every
// metric name.
func NewRingCollector(namespace string) *RingCollector {
	labels := []string{"ring"}
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "ring", n)
	}
	return &RingCollector{
		rings:    make(map[string]api.Observer),
		capacity: prometheus.NewDesc(name("capacity"), "Fixed number of slots", labels, nil),
		occupied: prometheus.NewDesc(name("occupied"), "Items currently stored", labels, nil),
		vacant:   prometheus.NewDesc(name("vacant"), "Free slots", labels, nil),
		pushed:   prometheus.NewDesc(name("pushed_total"), "Items ever inserted", labels, nil),
		popped:   prometheus.NewDesc(name("popped_total"), "Items ever removed", labels, nil),
	}
}

// Register adds or replaces the observer exported under name.
func (rc *RingCollector) Register(name string, obs api.Observer) {
	rc.mu.Lock()
	rc.rings[name] = obs
	rc.mu.Unlock()
}

// Unregister removes name.
func (rc *RingCollector) Unregister(name string) {
	rc.mu.Lock()
	delete(rc.rings, name)
	rc.mu.Unlock()
}

// Snapshot samples every registered ring.
func (rc *RingCollector) Snapshot() map[string]RingStats {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	out := make(map[string]RingStats, len(rc.rings))
	for name, obs := range rc.rings {
		out[name] = Sample(obs)
	}
	return out
}

// Describe implements prometheus.Collector.
func (rc *RingCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- rc.capacity
	ch <- rc.occupied
	ch <- rc.vacant
	ch <- rc.pushed
	ch <- rc.popped
}

// Collect implements prometheus.Collector.
func (rc *RingCollector) Collect(ch chan<- prometheus.Metric) {
	snap := rc.Snapshot()
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := snap[name]
		ch <- prometheus.MustNewConstMetric(rc.capacity, prometheus.GaugeValue, float64(s.Capacity), name)
		ch <- prometheus.MustNewConstMetric(rc.occupied, prometheus.GaugeValue, float64(s.Occupied), name)
		ch <- prometheus.MustNewConstMetric(rc.vacant, prometheus.GaugeValue, float64(s.Vacant), name)
		ch <- prometheus.MustNewConstMetric(rc.pushed, prometheus.CounterValue, float64(s.Pushed), name)
		ch <- prometheus.MustNewConstMetric(rc.popped, prometheus.CounterValue, float64(s.Popped), name)
	}
}
