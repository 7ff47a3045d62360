package lead

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"captured_at", "booth_id", "type", "status",
	"name", "email", "phone", "company", "interest",
	"confidence", "remarks", "source",
}

// ExportCSV streams every lead matching the filter as CSV. Returns the row
// count so callers can audit how much data left the system.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, f ListFilter) (int, error) {
	leads, err := s.query(ctx, f, false)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	for i := range leads {
		l := &leads[i]
		record := []string{
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.BoothID,
			l.Type,
			l.Status,
			deref(l.Name),
			deref(l.Email),
			deref(l.Phone),
			deref(l.Company),
			deref(l.Interest),
			strconv.FormatFloat(l.Confidence, 'f', 3, 64),
			deref(l.Remarks),
			l.Source,
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(leads), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
