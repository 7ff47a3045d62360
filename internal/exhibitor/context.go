package exhibitor

import (
	"context"

	"github.com/google/uuid"

	"github.com/boothiq/leadcapture/internal/models"
)

type contextKey string

const (
	exhibitorKey contextKey = "exhibitor"
	staffKey     contextKey = "staff"
)

func WithExhibitor(ctx context.Context, e *models.Exhibitor) context.Context {
	return context.WithValue(ctx, exhibitorKey, e)
}

func FromContext(ctx context.Context) *models.Exhibitor {
	e, _ := ctx.Value(exhibitorKey).(*models.Exhibitor)
	return e
}

func IDFromContext(ctx context.Context) uuid.UUID {
	if e := FromContext(ctx); e != nil {
		return e.ID
	}
	return uuid.Nil
}

func WithStaff(ctx context.Context, s *models.Staff) context.Context {
	return context.WithValue(ctx, staffKey, s)
}

func StaffFromContext(ctx context.Context) *models.Staff {
	s, _ := ctx.Value(staffKey).(*models.Staff)
	return s
}
