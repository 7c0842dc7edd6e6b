package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fi-dashboard-go/internal/metrics"
	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	supa "github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.FinanceStore.
var _ store.FinanceStore = (*Service)(nil)

const (
	restPath     = "/rest/v1"
	backendLabel = "rest"
)

// Service talks to a hosted PostgREST endpoint (Supabase wire format).
type Service struct {
	roundTripper http.RoundTripper
	timeout      time.Duration
	restURL      string
	key          string
	userId       string
}

func NewService(cfg models.RestConfig, userId string, httpClient *http.Client) (*Service, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, fmt.Errorf("supabase url and anon key are required: %w", store.ErrNotConfigured)
	}
	if userId == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	s := &Service{
		roundTripper: http.DefaultTransport,
		restURL:      strings.TrimRight(cfg.URL, "/") + restPath,
		key:          cfg.Key,
		userId:       userId,
	}
	if httpClient != nil {
		s.timeout = httpClient.Timeout
		if httpClient.Transport != nil {
			s.roundTripper = httpClient.Transport
		}
	}

	zap.L().Info("REST data store initialized", zap.String("url", cfg.URL), zap.String("user_id", userId))
	return s, nil
}

// contextTransport binds every request of one client to ctx.
type contextTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(req.WithContext(t.ctx))
}

// client returns a PostgREST client whose requests end with ctx or the
// configured timeout. The caller must call cancel once the result is decoded.
func (s *Service) client(ctx context.Context) (*supa.Client, context.CancelFunc) {
	cancel := context.CancelFunc(func() {})
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	}

	c := supa.NewClient(s.restURL, "", map[string]string{"apikey": s.key})
	c.SetAuthToken(s.key)
	c.Transport.Parent = contextTransport{ctx: ctx, next: s.roundTripper}
	return c, cancel
}

// selectRows starts a select scoped to the configured user.
func (s *Service) selectRows(c *supa.Client, table string) *supa.FilterBuilder {
	return c.From(table).Select("*", "", false).Eq("user_id", s.userId)
}

// between bounds column by the non-zero dates. The builder keeps one value
// per key, so a full range goes through an and= group.
func between(q *supa.FilterBuilder, column string, start, end models.Date) *supa.FilterBuilder {
	switch {
	case !start.IsZero() && !end.IsZero():
		return q.And(fmt.Sprintf("%s.gte.%s,%s.lte.%s", column, start, column, end), "")
	case !start.IsZero():
		return q.Gte(column, start.String())
	case !end.IsZero():
		return q.Lte(column, end.String())
	}
	return q
}

func limit(q *supa.FilterBuilder, n int) *supa.FilterBuilder {
	if n > 0 {
		return q.Limit(n, "")
	}
	return q
}

// list runs a select built by build into out, which must point at a slice.
func (s *Service) list(ctx context.Context, table string, out any, build func(*supa.FilterBuilder) *supa.FilterBuilder) error {
	c, cancel := s.client(ctx)
	defer cancel()

	_, err := build(s.selectRows(c, table)).ExecuteTo(out)
	metrics.ObserveStore(backendLabel, table, "select", err)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", table, err)
	}
	return nil
}

// insert posts one row and returns the representation PostgREST sends back.
func insert[T any](ctx context.Context, s *Service, table string, row T) (*T, error) {
	c, cancel := s.client(ctx)
	defer cancel()

	// return=representation answers with a one-element array
	var created []T
	_, err := c.From(table).Insert(row, false, "", "representation", "").ExecuteTo(&created)
	metrics.ObserveStore(backendLabel, table, "insert", err)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if len(created) == 0 {
		return nil, store.ErrNoRowReturned
	}
	return &created[0], nil
}

// Ping issues a one-row select against the expenses table.
func (s *Service) Ping(ctx context.Context) error {
	var rows []map[string]any
	return s.list(ctx, store.TableExpenses, &rows, func(q *supa.FilterBuilder) *supa.FilterBuilder {
		return q.Limit(1, "")
	})
}

func (s *Service) Close() {
	if ci, ok := s.roundTripper.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}
