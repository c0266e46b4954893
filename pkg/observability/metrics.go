// Package observability provides Prometheus-backed instrumentation for the
// engine: collectors plus a ready-made lifecycle hook set and registry load
// observer.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pathway/pkg/domain"
)

// Metrics bundles the engine collectors.
type Metrics struct {
	StatesEntered    *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	ModulesCompleted *prometheus.CounterVec
	ModuleLoads      prometheus.Counter
	ModuleLoadFails  prometheus.Counter
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StatesEntered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathway_states_entered_total",
			Help: "States entered across the population, by module.",
		}, []string{"module"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathway_transitions_total",
			Help: "State machine edges taken, by module.",
		}, []string{"module"}),
		ModulesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathway_modules_completed_total",
			Help: "Module terminations reached, by module.",
		}, []string{"module"}),
		ModuleLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathway_module_loads_total",
			Help: "Module definitions realized by the registry.",
		}),
		ModuleLoadFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathway_module_load_failures_total",
			Help: "Module realizations that failed.",
		}),
	}
	reg.MustRegister(m.StatesEntered, m.Transitions, m.ModulesCompleted, m.ModuleLoads, m.ModuleLoadFails)
	return m
}

// Hooks returns a lifecycle hook set that feeds the collectors. Combine it
// with application hooks via domain.Combine.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(e *domain.StateEvent) {
			m.StatesEntered.WithLabelValues(e.Module).Inc()
		},
		OnTransition: func(e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.Module).Inc()
		},
		OnModuleComplete: func(e *domain.ModuleEvent) {
			m.ModulesCompleted.WithLabelValues(e.Module).Inc()
		},
	}
}

// LoadObserver returns a registry observer counting loads and failures.
func (m *Metrics) LoadObserver() func(path string, err error) {
	return func(path string, err error) {
		m.ModuleLoads.Inc()
		if err != nil {
			m.ModuleLoadFails.Inc()
		}
	}
}
