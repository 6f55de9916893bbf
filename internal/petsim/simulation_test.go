package petsim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"pubsubhub/internal/hub"
	"pubsubhub/internal/hub/metrics"
)

func ptr[T any](v T) *T {
	return &v
}

func newSimulation(t *testing.T, scenario *Scenario, opts ...hub.Option) *Simulation {
	t.Helper()

	s, err := NewSimulation(scenario, zap.NewNop(), opts...)
	require.NoError(t, err)

	return s
}

func TestSimulation_DefaultScenario(t *testing.T) {
	scenario, err := DefaultScenario()
	require.NoError(t, err)

	s := newSimulation(t, scenario)
	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, 4, s.Published())
	assert.Equal(t, 4, s.Narrator().Seen())
	assert.Equal(t, []Status{
		{Name: "rex", Kind: KindDog, Eaten: 100, Slept: 45, Naps: 2},
		{Name: "tom", Kind: KindCat, Eaten: 70, Slept: 90, Naps: 2},
	}, s.Report())
}

func TestSimulation_FoodThenSleep(t *testing.T) {
	s := newSimulation(t, &Scenario{Pets: []PetSpec{{Name: "d", Kind: KindDog}}})

	require.NoError(t, s.Step(context.Background(), Step{Food: ptr(80)}))
	assert.Equal(t, Status{Name: "d", Kind: KindDog, Eaten: 80}, s.Report()[0])

	require.NoError(t, s.Step(context.Background(), Step{Sleep: ptr(30)}))
	assert.Equal(t, Status{Name: "d", Kind: KindDog, Eaten: 80, Slept: 30, Naps: 1}, s.Report()[0])
}

func TestSimulation_SubscriptionOrder(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	scenario := &Scenario{Pets: []PetSpec{{Name: "d1", Kind: KindDog}, {Name: "d2", Kind: KindDog}}}

	s, err := NewSimulation(scenario, zap.New(core))
	require.NoError(t, err)

	// narrator first, then the dogs in the order they are listed
	handles, err := hub.Handles[Food](s.Hub)
	require.NoError(t, err)
	require.Len(t, handles, 3)

	_, ok := hub.As[*Narrator](handles[0])
	assert.True(t, ok)

	dogs, err := s.Dogs()
	require.NoError(t, err)
	require.Len(t, dogs, 2)
	assert.Equal(t, "d1", dogs[0].Status().Name)
	assert.Equal(t, "d2", dogs[1].Status().Name)

	require.NoError(t, s.Step(context.Background(), Step{Food: ptr(1)}))
	assert.Equal(t, 1, logs.FilterMessage("food served").Len())
}

func TestSimulation_EmbeddedHub(t *testing.T) {
	s := newSimulation(t, &Scenario{Pets: []PetSpec{{Name: "tom", Kind: KindCat, Appetite: 10}}})

	// the simulation is a hub: other parties can subscribe to it directly
	var meals []int
	_, err := hub.SubscribeFunc(s.Hub, func(f Food) { meals = append(meals, f.Amount) })
	require.NoError(t, err)

	require.NoError(t, hub.Publish(s.Hub, Food{Amount: 25}))

	assert.Equal(t, []int{25}, meals)
	assert.Equal(t, 10, s.Report()[0].Eaten)
	assert.Equal(t, 0, s.Published())
}

func TestSimulation_WithMetrics(t *testing.T) {
	scenario, err := DefaultScenario()
	require.NoError(t, err)

	registry := metrics.NewRegistry()
	s := newSimulation(t, scenario, hub.WithMiddleware(hub.MetricsMiddleware(registry)))
	require.NoError(t, s.Run(context.Background()))

	families, err := registry.Gatherer().Gather()
	require.NoError(t, err)

	var deliveries float64
	for _, mf := range families {
		if mf.GetName() != "hub_deliveries_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			deliveries += m.GetCounter().GetValue()
		}
	}
	// four steps, each delivered to the narrator and both pets
	assert.Equal(t, 12.0, deliveries)
}

func TestSimulation_RunStopsWhenCancelled(t *testing.T) {
	scenario, err := DefaultScenario()
	require.NoError(t, err)

	s := newSimulation(t, scenario)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Published())
}

func TestNewSimulation_Validation(t *testing.T) {
	_, err := NewSimulation(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSimulation(&Scenario{}, nil)
	assert.Error(t, err)

	_, err = NewSimulation(&Scenario{Pets: []PetSpec{{Name: "polly", Kind: "parrot"}}}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSimulation(&Scenario{}, zap.NewNop(), hub.Supports[Food]())
	assert.ErrorIs(t, err, hub.ErrDuplicateType)
}

func TestStep_Empty(t *testing.T) {
	s := newSimulation(t, &Scenario{})

	assert.Error(t, s.Step(context.Background(), Step{}))
}
