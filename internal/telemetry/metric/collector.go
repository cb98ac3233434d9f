package metric

import "github.com/prometheus/client_golang/prometheus"

// TableCollector reports routing table statistics at scrape time
// rather than tracking them with explicit gauge updates.
type TableCollector struct {
	routesDesc *prometheus.Desc
	codesDesc  *prometheus.Desc
	routes     func() float64
	codes      func() float64
}

// NewTableCollector creates a collector reading the live table sizes
// from the given functions.
func NewTableCollector(routes, codes func() float64) *TableCollector {
	return &TableCollector{
		routesDesc: prometheus.NewDesc(
			namespace+"_routing_table_entries",
			"Entries in the live routing table.",
			nil, nil,
		),
		codesDesc: prometheus.NewDesc(
			namespace+"_code_assignments",
			"Known ID to code assignments.",
			nil, nil,
		),
		routes: routes,
		codes:  codes,
	}
}

// Describe implements prometheus.Collector.
func (c *TableCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.routesDesc
	ch <- c.codesDesc
}

// Collect implements prometheus.Collector.
func (c *TableCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.routesDesc, prometheus.GaugeValue, c.routes())
	ch <- prometheus.MustNewConstMetric(c.codesDesc, prometheus.GaugeValue, c.codes())
}
