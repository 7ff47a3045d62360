package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/boothiq/leadcapture/internal/cache"
	"github.com/boothiq/leadcapture/internal/exhibitor"
	"github.com/boothiq/leadcapture/internal/extraction"
	"github.com/boothiq/leadcapture/internal/models"
)

var ErrNotFound = errors.New("lead not found")

const leadColumns = `id, exhibitor_id, booth_id, type, status, name, email, phone, company, interest,
	transcript, ocr_text, source, raw_audio_url, confidence, remarks, captured_by, reviewed_at, created_at, updated_at`

type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

func scanLead(row pgx.Row) (*models.Lead, error) {
	var l models.Lead
	err := row.Scan(
		&l.ID, &l.ExhibitorID, &l.BoothID, &l.Type, &l.Status,
		&l.Name, &l.Email, &l.Phone, &l.Company, &l.Interest,
		&l.Transcript, &l.OCRText, &l.Source, &l.RawAudioURL,
		&l.Confidence, &l.Remarks, &l.CapturedBy, &l.ReviewedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan lead: %w", err)
	}
	return &l, nil
}

// Insert persists a fully-populated lead row. The capture intake inserts
// pending rows through here; manual creation inserts ready ones.
func (s *Service) Insert(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO leads (id, exhibitor_id, booth_id, type, status, name, email, phone, company, interest,
		                    transcript, ocr_text, source, raw_audio_url, confidence, remarks, captured_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING `+leadColumns,
		lead.ID, lead.ExhibitorID, lead.BoothID, lead.Type, lead.Status,
		lead.Name, lead.Email, lead.Phone, lead.Company, lead.Interest,
		lead.Transcript, lead.OCRText, lead.Source, lead.RawAudioURL,
		lead.Confidence, lead.Remarks, lead.CapturedBy,
	)

	inserted, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return inserted, nil
}

type ManualCreateRequest struct {
	BoothID  string  `json:"booth_id"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Interest *string `json:"interest"`
}

// CreateManual inserts an operator-entered lead. There is no extraction to
// second-guess, so confidence is 1.0 and no fallback remarks are composed.
func (s *Service) CreateManual(ctx context.Context, req ManualCreateRequest) (*models.Lead, error) {
	if strings.TrimSpace(req.BoothID) == "" {
		return nil, fmt.Errorf("booth_id is required")
	}

	fields := extraction.CandidateFields{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Interest: req.Interest,
	}.Normalize()
	if fields.Empty() {
		return nil, fmt.Errorf("at least one contact field is required")
	}

	staff := exhibitor.StaffFromContext(ctx)
	var capturedBy *uuid.UUID
	if staff != nil {
		capturedBy = &staff.ID
	}

	lead := extraction.Assemble(extraction.AssembleInput{
		ExhibitorID: exhibitor.IDFromContext(ctx),
		BoothID:     strings.TrimSpace(req.BoothID),
		CapturedBy:  capturedBy,
		Type:        models.LeadTypeManual,
		Fields:      fields,
		Confidence:  1.0,
	})

	return s.Insert(ctx, lead)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	exhibitorID := exhibitor.IDFromContext(ctx)
	row := s.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1 AND exhibitor_id = $2`,
		id, exhibitorID,
	)
	return scanLead(row)
}

type ListFilter struct {
	BoothID       string
	Type          string
	Status        string
	MinConfidence float64
	Limit         int
	Offset        int
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Lead, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	return s.query(ctx, f, true)
}

func (s *Service) query(ctx context.Context, f ListFilter, paginate bool) ([]models.Lead, error) {
	exhibitorID := exhibitor.IDFromContext(ctx)

	query := `SELECT ` + leadColumns + ` FROM leads WHERE exhibitor_id = $1`
	args := []interface{}{exhibitorID}
	argIdx := 2

	if f.BoothID != "" {
		query += fmt.Sprintf(" AND booth_id = $%d", argIdx)
		args = append(args, f.BoothID)
		argIdx++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, f.Type)
		argIdx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.MinConfidence > 0 {
		query += fmt.Sprintf(" AND confidence >= $%d", argIdx)
		args = append(args, f.MinConfidence)
		argIdx++
	}

	query += " ORDER BY created_at DESC"
	if paginate {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

type ReviewRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Interest *string `json:"interest"`
	Status   *string `json:"status"`
}

// Review applies a staff member's corrections. Only fields present in the
// request change; remarks stay untouched so the original extraction signal
// remains auditable after edits.
func (s *Service) Review(ctx context.Context, id uuid.UUID, req ReviewRequest) (*models.Lead, error) {
	exhibitorID := exhibitor.IDFromContext(ctx)

	sets := []string{"reviewed_at = now()", "updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if req.Name != nil {
		set("name", nilIfBlank(req.Name))
	}
	if req.Email != nil {
		set("email", nilIfBlank(req.Email))
	}
	if req.Phone != nil {
		set("phone", nilIfBlank(req.Phone))
	}
	if req.Company != nil {
		set("company", nilIfBlank(req.Company))
	}
	if req.Interest != nil {
		set("interest", nilIfBlank(req.Interest))
	}
	if req.Status != nil {
		if *req.Status != models.LeadStatusReady && *req.Status != models.LeadStatusFailed {
			return nil, fmt.Errorf("status must be %q or %q", models.LeadStatusReady, models.LeadStatusFailed)
		}
		set("status", *req.Status)
	}

	query := fmt.Sprintf(
		"UPDATE leads SET %s WHERE id = $%d AND exhibitor_id = $%d RETURNING %s",
		strings.Join(sets, ", "), argIdx, argIdx+1, leadColumns,
	)
	args = append(args, id, exhibitorID)

	return scanLead(s.db.QueryRow(ctx, query, args...))
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	exhibitorID := exhibitor.IDFromContext(ctx)
	tag, err := s.db.Exec(ctx, "DELETE FROM leads WHERE id = $1 AND exhibitor_id = $2", id, exhibitorID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// nilIfBlank turns a present-but-blank edit into a column NULL, matching
// the absence convention used everywhere else.
func nilIfBlank(p *string) interface{} {
	if v := strings.TrimSpace(*p); v != "" {
		return v
	}
	return nil
}
