package school

import (
	"context"
	"database/sql"
	"errors"
)

type Service struct {
	store SchoolStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// POST /schools
func (s *Service) CreateSchool(ctx context.Context, req CreateSchoolRequest) (*SchoolResponse, error) {
	days := DefaultWorkingDays
	if len(req.WorkingDays) > 0 {
		normalized, err := NormalizeWorkingDays(req.WorkingDays)
		if err != nil {
			return nil, err
		}
		days = normalized
	}

	sc := School{
		SchoolID:    req.SchoolID,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		WorkingDays: days,
	}
	if err := s.store.Create(ctx, &sc); err != nil {
		return nil, err
	}

	created, err := s.store.GetByID(ctx, req.SchoolID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, ErrInternal("inserted but not found")
	}
	resp := created.toDTO()
	return &resp, nil
}

// GET /schools/:school_id
func (s *Service) GetSchool(ctx context.Context, schoolID string) (*SchoolResponse, error) {
	if schoolID == "" {
		return nil, ErrInvalid("school_id is required")
	}
	sc, err := s.store.GetByID(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrNotFound("school not found")
	}
	resp := sc.toDTO()
	return &resp, nil
}

// GET /schools
func (s *Service) ListSchools(ctx context.Context, limit, offset int) ([]SchoolResponse, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	rows, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SchoolResponse, 0, len(rows))
	for _, sc := range rows {
		out = append(out, sc.toDTO())
	}
	return out, total, nil
}

// PUT /schools/:school_id/working-days
func (s *Service) UpdateWorkingDays(ctx context.Context, schoolID string, req UpdateWorkingDaysRequest) (*SchoolResponse, error) {
	if schoolID == "" {
		return nil, ErrInvalid("school_id is required")
	}
	days, err := NormalizeWorkingDays(req.WorkingDays)
	if err != nil {
		return nil, err
	}
	n, err := s.store.UpdateWorkingDays(ctx, schoolID, days)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// RowsAffected is 0 both for missing rows and no-op updates, so check.
		sc, err := s.store.GetByID(ctx, schoolID)
		if err != nil {
			return nil, err
		}
		if sc == nil {
			return nil, ErrNotFound("school not found")
		}
	}
	return s.GetSchool(ctx, schoolID)
}

// WorkingCalendar reports a school's display name and configured working days.
// Unknown schools return ("", nil, nil); callers fall back to
// DefaultWorkingDays so attendance capture never blocks on missing settings.
func (s *Service) WorkingCalendar(ctx context.Context, schoolID string) (string, []string, error) {
	sc, err := s.store.GetByID(ctx, schoolID)
	if err != nil {
		return "", nil, err
	}
	if sc == nil {
		return "", nil, nil
	}
	return sc.Name, sc.WorkingDays, nil
}
