// Package petsim is a small household simulation driven by a hub: pets subscribe to
// Food and Sleep events and a scenario publishes them one step at a time.
package petsim

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pubsubhub/internal/hub"
	"pubsubhub/internal/validator"
)

// Simulation is a hub for Food and Sleep events plus the household subscribed to it.
type Simulation struct {
	*hub.Hub

	scenario *Scenario
	pets     []Pet
	narrator *Narrator
	logger   *zap.Logger
	steps    int
}

// NewSimulation creates the hub, subscribes the narrator and then every pet of the
// scenario in the order they are listed. opts are applied to the hub after the event
// types and logger.
func NewSimulation(scenario *Scenario, logger *zap.Logger, opts ...hub.Option) (*Simulation, error) {
	if err := validator.Validate("simulation", scenario, logger); err != nil {
		return nil, fmt.Errorf("failed to validate simulation deps: %w", err)
	}

	h, err := hub.New(append([]hub.Option{
		hub.Supports[Food](),
		hub.Supports[Sleep](),
		hub.WithLogger(logger),
	}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create hub: %w", err)
	}

	s := Simulation{
		Hub:      h,
		scenario: scenario,
		narrator: NewNarrator(logger),
		logger:   logger.Named("petsim"),
	}

	if _, err := hub.SubscribeMethod(h, s.narrator, s.narrator.Food); err != nil {
		return nil, fmt.Errorf("failed to subscribe narrator: %w", err)
	}
	if _, err := hub.SubscribeMethod(h, s.narrator, s.narrator.Sleep); err != nil {
		return nil, fmt.Errorf("failed to subscribe narrator: %w", err)
	}

	for _, spec := range scenario.Pets {
		if err := s.adopt(spec); err != nil {
			return nil, fmt.Errorf("failed to adopt %s: %w", spec.Name, err)
		}
	}

	return &s, nil
}

func (s *Simulation) adopt(spec PetSpec) error {
	switch spec.Kind {
	case KindDog:
		d := NewDog(spec.Name)
		if _, err := hub.Subscribe[Food](s.Hub, d); err != nil {
			return err
		}
		if _, err := hub.SubscribeMethod(s.Hub, d, d.Sleep); err != nil {
			return err
		}
		s.pets = append(s.pets, d)
	case KindCat:
		c := NewCat(spec.Name, spec.Appetite)
		if _, err := hub.SubscribeMethod(s.Hub, c, c.Eat); err != nil {
			return err
		}
		if _, err := hub.Subscribe[Sleep](s.Hub, c); err != nil {
			return err
		}
		s.pets = append(s.pets, c)
	default:
		return fmt.Errorf("unknown kind %q", spec.Kind)
	}

	s.logger.Debug("adopted pet", zap.String("name", spec.Name), zap.String("kind", spec.Kind))

	return nil
}

// Step publishes the event described by step.
func (s *Simulation) Step(ctx context.Context, step Step) error {
	var err error
	switch {
	case step.Food != nil:
		err = hub.PublishContext(ctx, s.Hub, Food{Amount: *step.Food})
	case step.Sleep != nil:
		err = hub.PublishContext(ctx, s.Hub, Sleep{Time: *step.Sleep})
	default:
		return errors.New("empty step")
	}
	if err != nil {
		return err
	}

	s.steps++
	return nil
}

// Run publishes every step of the scenario in order. It stops between steps once ctx
// is done.
func (s *Simulation) Run(ctx context.Context) error {
	logger := s.logger.With(zap.Int("steps", len(s.scenario.Steps)), zap.Int("pets", len(s.pets)))
	logger.Info("starting simulation")

	for i, step := range s.scenario.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation stopped after %d steps: %w", s.steps, err)
		}

		if err := s.Step(ctx, step); err != nil {
			const msg = "failed to run step"
			logger.Error(msg, zap.Int("step", i), zap.Error(err))
			return fmt.Errorf(msg+" %d: %w", i, err)
		}
	}

	logger.Info("simulation complete", zap.Int("published", s.steps))

	return nil
}

// Report returns the status of every pet in adoption order.
func (s *Simulation) Report() []Status {
	report := make([]Status, 0, len(s.pets))
	for _, p := range s.pets {
		report = append(report, p.Status())
	}
	return report
}

// Dogs returns the dogs subscribed to Food, recovered from the hub's handles.
func (s *Simulation) Dogs() ([]*Dog, error) {
	handles, err := hub.Handles[Food](s.Hub)
	if err != nil {
		return nil, err
	}

	var dogs []*Dog
	for _, h := range handles {
		if d, ok := hub.As[*Dog](h); ok {
			dogs = append(dogs, d)
		}
	}

	return dogs, nil
}

// Scenario returns the scenario the simulation was built from.
func (s *Simulation) Scenario() *Scenario {
	return s.scenario
}

// Narrator returns the narrator subscribed to every event type.
func (s *Simulation) Narrator() *Narrator {
	return s.narrator
}

// Published returns the number of steps published so far.
func (s *Simulation) Published() int {
	return s.steps
}
