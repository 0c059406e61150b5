package reportmetrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	commissiondomain "github.com/smallbiznis/salesops/internal/commission/domain"
)

var reportLabels = []string{"manager_id", "period"}

// Gauges hold the latest per-manager commission totals on a private registry,
// separate from the process /metrics endpoint.
type Gauges struct {
	registry   *prometheus.Registry
	earned     *prometheus.GaugeVec
	pending    *prometheus.GaugeVec
	potential  *prometheus.GaugeVec
	bonus      *prometheus.GaugeVec
	salesCount *prometheus.GaugeVec
}

func NewGauges() *Gauges {
	newVec := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "salesops",
			Subsystem: "report",
			Name:      name,
			Help:      help,
		}, reportLabels)
	}

	g := &Gauges{
		registry:   prometheus.NewRegistry(),
		earned:     newVec("commission_earned", "Commission earned in the current period."),
		pending:    newVec("commission_pending", "Commission awaiting approval in the current period."),
		potential:  newVec("commission_potential", "Commission if every sale became eligible."),
		bonus:      newVec("bonus", "Tier bonus paid in the current period."),
		salesCount: newVec("sales_count", "Sales recorded in the current period."),
	}
	g.registry.MustRegister(g.earned, g.pending, g.potential, g.bonus, g.salesCount)
	return g
}

func (g *Gauges) Registry() *prometheus.Registry {
	return g.registry
}

// Reset drops every series so managers or periods that disappeared stop reporting.
func (g *Gauges) Reset() {
	g.earned.Reset()
	g.pending.Reset()
	g.potential.Reset()
	g.bonus.Reset()
	g.salesCount.Reset()
}

func (g *Gauges) Set(managerID, period string, summary commissiondomain.Summary) {
	labels := prometheus.Labels{
		"manager_id": normalizeLabel(managerID),
		"period":     normalizeLabel(period),
	}
	g.earned.With(labels).Set(float64(summary.Earned))
	g.pending.With(labels).Set(float64(summary.Pending))
	g.potential.With(labels).Set(float64(summary.Potential))
	g.bonus.With(labels).Set(float64(summary.Bonus))
	g.salesCount.With(labels).Set(float64(summary.SalesCount))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
