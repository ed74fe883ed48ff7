package strategy

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Registry holds strategies in registration order, which is the aggregator's tie-break order
type Registry struct {
	strategies []Strategy
	index      map[string]int
}

// NewRegistry creates a registry, rejecting duplicate identifiers
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(strategies))}
	for _, s := range strategies {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry registers the built-in strategies
func DefaultRegistry(log *logrus.Logger) *Registry {
	r, _ := NewRegistry(
		NewAnytimeTDStrategy(log),
		NewMultiTDStrategy(log),
		NewTeamTDTotalStrategy(log),
	)
	return r
}

// Register appends a strategy
func (r *Registry) Register(s Strategy) error {
	if _, exists := r.index[s.ID()]; exists {
		return fmt.Errorf("strategy %q already registered", s.ID())
	}
	r.index[s.ID()] = len(r.strategies)
	r.strategies = append(r.strategies, s)
	return nil
}

// Get returns the strategy and its registration position
func (r *Registry) Get(id string) (Strategy, int, error) {
	pos, ok := r.index[id]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", models.ErrUnknownStrategy, id)
	}
	return r.strategies[pos], pos, nil
}

// All returns the strategies in registration order
func (r *Registry) All() []Strategy {
	return append([]Strategy(nil), r.strategies...)
}

// IDs returns the registered identifiers in order
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		ids[i] = s.ID()
	}
	return ids
}

// Len returns the number of registered strategies
func (r *Registry) Len() int {
	return len(r.strategies)
}
