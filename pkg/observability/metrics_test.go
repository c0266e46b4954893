package observability_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/observability"
)

func TestHooksFeedCollectors(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks()

	hooks.OnStateEnter(&domain.StateEvent{Module: "A Module"})
	hooks.OnStateEnter(&domain.StateEvent{Module: "A Module"})
	hooks.OnTransition(&domain.TransitionEvent{Module: "A Module"})
	hooks.OnModuleComplete(&domain.ModuleEvent{Module: "A Module"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatesEntered.WithLabelValues("A Module")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("A Module")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModulesCompleted.WithLabelValues("A Module")))
}

func TestLoadObserverCountsFailures(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())
	obs := m.LoadObserver()

	obs("good", nil)
	obs("bad", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ModuleLoads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModuleLoadFails))
}
