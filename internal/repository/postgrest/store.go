// Package postgrest stores farm records through the hosted backend's
// PostgREST table API. Row ownership is enforced by the backend; every query
// also filters on user_id.
package postgrest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/auth"
	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Table names.
const (
	tableAnimals          = "animals"
	tableAlerts           = "alerts"
	tableMilkRecords      = "milk_records"
	tableFinancialRecords = "financial_records"
	tableFeedRecords      = "feed_records"
	tableFarmProfiles     = "farm_profiles"
)

// Store implements every record store the services need.
type Store struct {
	http       *resty.Client
	serviceKey string
	logger     *zap.Logger
}

// New builds a store against {cfg.URL}/rest/v1.
func New(cfg config.BackendConfig, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(cfg.URL+"/rest/v1").
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	return &Store{http: client, serviceKey: cfg.ServiceKey, logger: logger}
}

// apiError is the PostgREST error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// request starts a call authorized as the request's caller, or with the
// service key for background jobs.
func (s *Store) request(ctx context.Context) *resty.Request {
	token := s.serviceKey
	if id, ok := auth.FromContext(ctx); ok && id.Token != "" {
		token = id.Token
	}
	return s.http.R().SetContext(ctx).SetAuthToken(token).SetError(&apiError{})
}

func ownerFilter(owner uuid.UUID) url.Values {
	return url.Values{"user_id": {"eq." + owner.String()}}
}

func ownedRow(owner, id uuid.UUID) url.Values {
	q := ownerFilter(owner)
	q.Set("id", "eq."+id.String())
	return q
}

func selectRows[T any](ctx context.Context, s *Store, table string, query url.Values) ([]T, error) {
	rows := []T{}
	resp, err := s.request(ctx).
		SetQueryParamsFromValues(query).
		SetResult(&rows).
		Get("/" + table)
	if err := s.check(table, resp, err); err != nil {
		return nil, err
	}
	return rows, nil
}

// mutate sends a write that returns the affected rows. No affected row means
// the caller does not own the target.
func mutate[T any](ctx context.Context, s *Store, method, table string, query url.Values, body any) (T, error) {
	var zero T
	rows := []T{}

	req := s.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParamsFromValues(query).
		SetResult(&rows)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, "/"+table)
	if err := s.check(table, resp, err); err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("%s %s: no owned row matched: %w", method, table, models.ErrForbidden)
	}
	return rows[0], nil
}

func (s *Store) check(table string, resp *resty.Response, err error) error {
	if err != nil {
		s.logger.Error("backend request failed", zap.String("table", table), zap.Error(err))
		return fmt.Errorf("%s: %w", table, errors.Join(models.ErrBackend, err))
	}
	if !resp.IsError() {
		return nil
	}

	detail := resp.Status()
	if body, ok := resp.Error().(*apiError); ok && body.Message != "" {
		detail = fmt.Sprintf("%s (%s)", body.Message, body.Code)
	}

	var sentinel error
	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized:
		sentinel = models.ErrNotAuthenticated
	case status == http.StatusForbidden:
		sentinel = models.ErrForbidden
	case status == http.StatusNotFound:
		sentinel = models.ErrNotFound
	case status == http.StatusConflict:
		sentinel = models.ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", table, models.NewValidationError("body", detail))
	default:
		sentinel = models.ErrBackend
	}

	s.logger.Warn("backend rejected request",
		zap.String("table", table),
		zap.Int("status", resp.StatusCode()),
		zap.String("detail", detail))
	return fmt.Errorf("%s: %s: %w", table, detail, sentinel)
}
