package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/boothiq/leadcapture/internal/cache"
	"github.com/boothiq/leadcapture/internal/exhibitor"
)

const statsTTL = 60 * time.Second

type Stats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByType        map[string]int `json:"by_type"`
	AvgConfidence float64        `json:"avg_confidence"`
}

// Stats aggregates lead counts for the exhibitor, optionally narrowed to
// one booth. Results are cached for a minute; booth dashboards poll this.
func (s *Service) Stats(ctx context.Context, boothID string) (*Stats, error) {
	exhibitorID := exhibitor.IDFromContext(ctx)
	cacheKey := fmt.Sprintf("lead_stats:%s:%s", exhibitorID, boothID)

	if s.cache != nil {
		var cached Stats
		err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("stats cache read failed", "error", err)
		}
	}

	query := `SELECT status, type, COUNT(*), COALESCE(SUM(confidence), 0)
	          FROM leads WHERE exhibitor_id = $1`
	args := []interface{}{exhibitorID}
	if boothID != "" {
		query += " AND booth_id = $2"
		args = append(args, boothID)
	}
	query += " GROUP BY status, type"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lead stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{
		ByStatus: map[string]int{},
		ByType:   map[string]int{},
	}
	var confidenceSum float64

	for rows.Next() {
		var status, leadType string
		var count int
		var sum float64
		if err := rows.Scan(&status, &leadType, &count, &sum); err != nil {
			return nil, fmt.Errorf("scan lead stats: %w", err)
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByType[leadType] += count
		confidenceSum += sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read lead stats: %w", err)
	}

	if stats.Total > 0 {
		stats.AvgConfidence = confidenceSum / float64(stats.Total)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, stats, statsTTL); err != nil {
			slog.Warn("stats cache write failed", "error", err)
		}
	}

	return stats, nil
}
