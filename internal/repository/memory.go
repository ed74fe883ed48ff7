package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

type propKey struct {
	season int
	week   int
	market models.Market
}

type defenseKey struct {
	team   string
	season int
	week   int
}

// MemoryStore is an in-process StatsStore, PropSource and StatsWriter
type MemoryStore struct {
	mu         sync.RWMutex
	aggregates map[string]models.StatAggregate
	defense    map[defenseKey]models.DefenseAggregate
	contexts   []models.ContextRecord
	props      map[propKey][]models.PropLine
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		aggregates: make(map[string]models.StatAggregate),
		defense:    make(map[defenseKey]models.DefenseAggregate),
		props:      make(map[propKey][]models.PropLine),
	}
}

// UpsertAggregate replaces the row for the (entity, season, week) key
func (m *MemoryStore) UpsertAggregate(_ context.Context, agg *models.StatAggregate) error {
	row := *agg
	row.Entity = models.NormalizeName(row.Entity)
	row.Team = models.NormalizeTeam(row.Team)
	if row.ImportedAt.IsZero() {
		row.ImportedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregates[row.Key()] = row
	return nil
}

// UpsertDefense replaces the defense row for the (team, season, week) key
func (m *MemoryStore) UpsertDefense(_ context.Context, def *models.DefenseAggregate) error {
	row := *def
	row.Team = models.NormalizeTeam(row.Team)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defense[defenseKey{team: row.Team, season: row.Season, week: row.Week}] = row
	return nil
}

// AddContext appends a play-level record
func (m *MemoryStore) AddContext(_ context.Context, rec *models.ContextRecord) error {
	row := *rec
	row.Entity = models.NormalizeName(row.Entity)
	row.Team = models.NormalizeTeam(row.Team)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts = append(m.contexts, row)
	return nil
}

// UpsertPropLine replaces a line for the same entity, market and book
func (m *MemoryStore) UpsertPropLine(_ context.Context, season, week int, line *models.PropLine) error {
	row := *line
	row.Entity = models.NormalizeName(row.Entity)
	row.Team = models.NormalizeTeam(row.Team)
	row.Opponent = models.NormalizeTeam(row.Opponent)

	m.mu.Lock()
	defer m.mu.Unlock()

	key := propKey{season: season, week: week, market: row.Market}
	lines := m.props[key]
	for i := range lines {
		if lines[i].Entity == row.Entity && lines[i].Book == row.Book {
			lines[i] = row
			return nil
		}
	}
	m.props[key] = append(lines, row)
	return nil
}

// WindowTotals sums the entity's rows with fromWeek <= week <= toWeek
func (m *MemoryStore) WindowTotals(_ context.Context, entity string, season, fromWeek, toWeek int) (models.WindowTotals, error) {
	entity = models.NormalizeName(entity)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var totals models.WindowTotals
	for _, row := range m.aggregates {
		if row.Entity != entity || row.Season != season || row.Week < fromWeek || row.Week > toWeek {
			continue
		}
		totals.Scores += row.Scores
		totals.Volume += row.Attempts + row.Targets
		totals.ZoneEntries += row.ZoneEntries
		totals.ZoneScores += row.ZoneCompletions
		totals.Weeks++
	}
	return totals, nil
}

// OpponentDefense computes scores allowed per zone entry allowed through a week
func (m *MemoryStore) OpponentDefense(_ context.Context, team string, season, throughWeek int) (models.DefenseRate, error) {
	team = models.NormalizeTeam(team)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries, scores, weeks int
	for key, row := range m.defense {
		if key.team != team || key.season != season || key.week > throughWeek {
			continue
		}
		entries += row.ZoneEntriesAllowed
		scores += row.ScoresAllowed
		weeks++
	}
	return defenseRate(team, entries, scores, weeks), nil
}

// ContextZoneEntries counts red-zone context records in the window
func (m *MemoryStore) ContextZoneEntries(_ context.Context, entity string, season, fromWeek, toWeek int) (int, error) {
	entity = models.NormalizeName(entity)

	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for i := range m.contexts {
		rec := &m.contexts[i]
		if rec.Entity != entity || rec.Season != season || rec.Week < fromWeek || rec.Week > toWeek {
			continue
		}
		if rec.InRedZone() {
			count++
		}
	}
	return count, nil
}

// PropLines returns the lines for a market ordered by entity then book
func (m *MemoryStore) PropLines(_ context.Context, season, week int, market models.Market) ([]models.PropLine, error) {
	m.mu.RLock()
	lines := append([]models.PropLine(nil), m.props[propKey{season: season, week: week, market: market}]...)
	m.mu.RUnlock()

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Entity != lines[j].Entity {
			return lines[i].Entity < lines[j].Entity
		}
		return lines[i].Book < lines[j].Book
	})
	return lines, nil
}
