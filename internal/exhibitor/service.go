package exhibitor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boothiq/leadcapture/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Exhibitor, error) {
	var e models.Exhibitor
	err := s.db.QueryRow(ctx,
		"SELECT id, name, slug, settings, created_at, updated_at FROM exhibitors WHERE id = $1", id,
	).Scan(&e.ID, &e.Name, &e.Slug, &e.Settings, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get exhibitor: %w", err)
	}
	return &e, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Exhibitor, error) {
	var e models.Exhibitor
	err := s.db.QueryRow(ctx,
		"SELECT id, name, slug, settings, created_at, updated_at FROM exhibitors WHERE slug = $1", slug,
	).Scan(&e.ID, &e.Name, &e.Slug, &e.Settings, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get exhibitor by slug: %w", err)
	}
	return &e, nil
}

func (s *Service) Create(ctx context.Context, name, slug string) (*models.Exhibitor, error) {
	var e models.Exhibitor
	err := s.db.QueryRow(ctx,
		`INSERT INTO exhibitors (name, slug) VALUES ($1, $2)
		 RETURNING id, name, slug, settings, created_at, updated_at`,
		name, slug,
	).Scan(&e.ID, &e.Name, &e.Slug, &e.Settings, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create exhibitor: %w", err)
	}
	return &e, nil
}

func (s *Service) GetStaffByID(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var st models.Staff
	err := s.db.QueryRow(ctx,
		"SELECT id, exhibitor_id, role_id, email, full_name, created_at FROM staff WHERE id = $1", id,
	).Scan(&st.ID, &st.ExhibitorID, &st.RoleID, &st.Email, &st.FullName, &st.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return &st, nil
}
