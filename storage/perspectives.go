package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"fullpicture/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertPerspectives inserts or replaces perspectives by id
func (s *Store) UpsertPerspectives(ctx context.Context, perspectives []types.Perspective) error {
	if len(perspectives) == 0 {
		return nil
	}
	records := make([]PerspectiveRecord, 0, len(perspectives))
	for _, p := range perspectives {
		if p.ID == "" {
			return fmt.Errorf("perspective %q has no id", p.Title)
		}
		records = append(records, fromPerspective(p))
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "source", "community", "quote", "sentiment", "date", "url", "updated_at"}),
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert perspectives: %w", err)
	}
	return nil
}

// Perspective returns a single perspective by id
func (s *Store) Perspective(ctx context.Context, id string) (types.Perspective, error) {
	var rec PerspectiveRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Perspective{}, ErrNotFound
	}
	if err != nil {
		return types.Perspective{}, err
	}
	counts, err := s.commentCounts(ctx, []string{id})
	if err != nil {
		return types.Perspective{}, err
	}
	return rec.toPerspective(counts[id]), nil
}

// Recent returns the newest perspectives
func (s *Store) Recent(ctx context.Context, limit int) ([]types.Perspective, error) {
	var recs []PerspectiveRecord
	err := s.db.WithContext(ctx).
		Order("date DESC").Order("created_at DESC").Order("id").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent perspectives: %w", err)
	}
	return s.withCounts(ctx, recs)
}

// Search returns the perspectives whose title or quote contains every term
// of query, most relevant first. Relevance is the number of term
// occurrences; ties are broken by newest date.
func (s *Store) Search(ctx context.Context, query string) ([]types.Perspective, error) {
	terms := Terms(query)
	if len(terms) == 0 {
		return []types.Perspective{}, nil
	}

	tx := s.db.WithContext(ctx).Model(&PerspectiveRecord{})
	for _, term := range terms {
		like := "%" + term + "%"
		tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(quote) LIKE ?)", like, like)
	}

	var recs []PerspectiveRecord
	if err := tx.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to search perspectives: %w", err)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := rank(recs[i], terms), rank(recs[j], terms)
		if ri != rj {
			return ri > rj
		}
		if recs[i].Date != recs[j].Date {
			return recs[i].Date > recs[j].Date
		}
		return recs[i].ID < recs[j].ID
	})

	return s.withCounts(ctx, recs)
}

// Sources lists the distinct sources among the perspectives matching
// query, or every source when query is blank.
func (s *Store) Sources(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		var sources []string
		err := s.db.WithContext(ctx).Model(&PerspectiveRecord{}).
			Distinct("source").Order("source").Pluck("source", &sources).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list sources: %w", err)
		}
		return sources, nil
	}

	matches, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	sources := []string{}
	for _, p := range matches {
		if !seen[p.Source] {
			seen[p.Source] = true
			sources = append(sources, p.Source)
		}
	}
	sort.Strings(sources)
	return sources, nil
}

// Timeline groups the perspectives matching query by day, newest day first
func (s *Store) Timeline(ctx context.Context, query string) ([]types.TimelineEntry, error) {
	matches, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	byDate := map[string][]types.Perspective{}
	var dates []string
	for _, p := range matches {
		day := p.Date
		if len(day) > 10 {
			day = day[:10]
		}
		if _, ok := byDate[day]; !ok {
			dates = append(dates, day)
		}
		byDate[day] = append(byDate[day], p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	out := make([]types.TimelineEntry, 0, len(dates))
	for _, d := range dates {
		out = append(out, types.TimelineEntry{Date: d, Perspectives: byDate[d]})
	}
	return out, nil
}

// Terms lower-cases query and splits it into search terms
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := map[string]bool{}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]")
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func rank(r PerspectiveRecord, terms []string) int {
	text := strings.ToLower(r.Title + " " + r.Quote)
	title := strings.ToLower(r.Title)
	n := 0
	for _, t := range terms {
		n += strings.Count(text, t)
		// title hits weigh double
		n += strings.Count(title, t)
	}
	return n
}

func (s *Store) withCounts(ctx context.Context, recs []PerspectiveRecord) ([]types.Perspective, error) {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	counts, err := s.commentCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]types.Perspective, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toPerspective(counts[r.ID]))
	}
	return out, nil
}

func (s *Store) commentCounts(ctx context.Context, ids []string) (map[string]int, error) {
	counts := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		PerspectiveID string
		N             int
	}
	err := s.db.WithContext(ctx).Model(&CommentRecord{}).
		Select("perspective_id, COUNT(*) AS n").
		Where("perspective_id IN ?", ids).
		Group("perspective_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	for _, row := range rows {
		counts[row.PerspectiveID] = row.N
	}
	return counts, nil
}
