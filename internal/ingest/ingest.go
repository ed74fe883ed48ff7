// Package ingest loads statistical fixtures into a writable store.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// PropRow is a prop line tagged with its period
type PropRow struct {
	Season int `json:"season"`
	Week   int `json:"week"`
	models.PropLine
}

// Fixture is the ingest file layout
type Fixture struct {
	Aggregates []models.StatAggregate    `json:"aggregates"`
	Defense    []models.DefenseAggregate `json:"defense"`
	Context    []models.ContextRecord    `json:"context"`
	Props      []PropRow                 `json:"props"`
}

// Summary counts the rows written per section
type Summary struct {
	Aggregates int `json:"aggregates"`
	Defense    int `json:"defense"`
	Context    int `json:"context"`
	Props      int `json:"props"`
}

// Loader validates and writes fixtures
type Loader struct {
	writer   repository.StatsWriter
	validate *validator.Validate
}

// NewLoader creates a loader. A nil writer means the store is read-only.
func NewLoader(writer repository.StatsWriter) (*Loader, error) {
	if writer == nil {
		return nil, errors.New("configured store is read-only")
	}
	return &Loader{writer: writer, validate: validator.New()}, nil
}

// Load decodes a fixture from r and writes it section by section
func (l *Loader) Load(ctx context.Context, r io.Reader) (Summary, error) {
	var fixture Fixture
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return Summary{}, models.NewInvalidInput("fixture", "malformed JSON: %v", err)
	}
	return l.Write(ctx, &fixture)
}

// Write stores every row of the fixture. The first invalid row stops the load.
func (l *Loader) Write(ctx context.Context, fixture *Fixture) (Summary, error) {
	var summary Summary

	for i := range fixture.Aggregates {
		row := &fixture.Aggregates[i]
		if err := l.check("aggregates", i, row); err != nil {
			return summary, err
		}
		if err := l.writer.UpsertAggregate(ctx, row); err != nil {
			return summary, fmt.Errorf("aggregates[%d]: %w", i, err)
		}
		summary.Aggregates++
	}

	for i := range fixture.Defense {
		row := &fixture.Defense[i]
		if err := l.check("defense", i, row); err != nil {
			return summary, err
		}
		if err := l.writer.UpsertDefense(ctx, row); err != nil {
			return summary, fmt.Errorf("defense[%d]: %w", i, err)
		}
		summary.Defense++
	}

	for i := range fixture.Context {
		row := &fixture.Context[i]
		if err := checkPeriod("context", i, row.Season, row.Week); err != nil {
			return summary, err
		}
		if models.NormalizeName(row.Entity) == "" {
			return summary, models.NewInvalidInput(fmt.Sprintf("context[%d].entity", i), "is required")
		}
		if err := l.writer.AddContext(ctx, row); err != nil {
			return summary, fmt.Errorf("context[%d]: %w", i, err)
		}
		summary.Context++
	}

	for i := range fixture.Props {
		row := &fixture.Props[i]
		if err := checkPeriod("props", i, row.Season, row.Week); err != nil {
			return summary, err
		}
		if models.NormalizeName(row.Entity) == "" || row.Market == "" {
			return summary, models.NewInvalidInput(fmt.Sprintf("props[%d]", i), "entity and market are required")
		}
		if err := l.writer.UpsertPropLine(ctx, row.Season, row.Week, &row.PropLine); err != nil {
			return summary, fmt.Errorf("props[%d]: %w", i, err)
		}
		summary.Props++
	}

	return summary, nil
}

func (l *Loader) check(section string, index int, row interface{}) error {
	if err := l.validate.Struct(row); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return models.NewInvalidInput(fmt.Sprintf("%s[%d].%s", section, index, fe.Field()),
				"failed '%s' validation", fe.Tag())
		}
		return models.NewInvalidInput(fmt.Sprintf("%s[%d]", section, index), "%v", err)
	}
	return nil
}

func checkPeriod(section string, index, season, week int) error {
	if err := (models.Period{Season: season, Week: week}).Validate(); err != nil {
		return models.NewInvalidInput(fmt.Sprintf("%s[%d]", section, index), "%v", err)
	}
	return nil
}
