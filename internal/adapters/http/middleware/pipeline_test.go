package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/dto"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/store/memstore"
	"github.com/jsamuelsen11/followup-tx/internal/app"
	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/platform/config"
	"github.com/jsamuelsen11/followup-tx/internal/platform/logging"
	"github.com/jsamuelsen11/followup-tx/internal/platform/txn"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

const followupsPattern = "/api/v1/entities/{key}/followups"

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return logging.New("debug", "json", buf)
}

// followupRouter mounts h on the follow-up route behind the given middleware,
// the way the service router does.
func followupRouter(h http.HandlerFunc, mws ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if len(mws) > 0 {
		r.Use(middleware.Chain(mws...))
	}
	r.Post(followupsPattern, h)
	return r
}

func postFollowup(t *testing.T, h http.Handler, key string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/entities/"+key+"/followups",
		strings.NewReader(`{"events":[{"type":"CFP","description":"Submitted"}]}`))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("Content-Type = %q, want application/problem+json", ct)
	}
	var problem dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&problem); err != nil {
		t.Fatalf("decoding problem: %v", err)
	}
	return problem
}

// --- Chain ---

func TestChain_FirstArgumentIsOutermost(t *testing.T) {
	t.Parallel()

	var order []string
	layer := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+":in")
				next.ServeHTTP(w, r)
				order = append(order, name+":out")
			})
		}
	}

	h := middleware.Chain(layer("recovery"), layer("request_id"), layer("logging"))(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	want := []string{
		"recovery:in", "request_id:in", "logging:in",
		"handler",
		"logging:out", "request_id:out", "recovery:out",
	}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	h := middleware.Chain()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

// --- Logging ---

func TestLogging_RouteAndRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := testLogger(&buf)

	var handlerLogger *slog.Logger
	h := followupRouter(func(w http.ResponseWriter, r *http.Request) {
		handlerLogger = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}, middleware.RequestID(), middleware.Logging(logger))

	postFollowup(t, h, "confA", http.Header{"X-Request-Id": {"req-confA-1"}})

	out := buf.String()
	for _, want := range []string{
		`"msg":"request started"`,
		`"msg":"request completed"`,
		`"request_id":"req-confA-1"`,
		`"route":"` + followupsPattern + `"`,
		`"status":200`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
	if handlerLogger == nil || handlerLogger == slog.Default() {
		t.Error("handler context does not carry the request logger")
	}
}

func TestLogging_RedactsCredentialHeaders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := followupRouter(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, middleware.Logging(testLogger(&buf)))

	postFollowup(t, h, "confA", http.Header{
		"Authorization": {"Bearer s3cr3t-token"},
		"Cookie":        {"session=abc123"},
		"Content-Type":  {"application/json"},
	})

	out := buf.String()
	for _, secret := range []string{"s3cr3t-token", "abc123"} {
		if strings.Contains(out, secret) {
			t.Errorf("log output leaked %q:\n%s", secret, out)
		}
	}
	if !strings.Contains(out, "application/json") {
		t.Error("log output dropped a non-sensitive header")
	}
}

func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	attrs := middleware.RedactHeaders(http.Header{
		"Authorization":       {"Basic dXNlcjpwYXNz"},
		"Proxy-Authorization": {"x"},
		"X-Api-Key":           {"k"},
		"Set-Cookie":          {"a=1"},
		"Accept":              {"application/json", "text/plain"},
	})

	got := make(map[string]string, len(attrs))
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}

	for _, key := range []string{"Authorization", "Proxy-Authorization", "X-Api-Key", "Set-Cookie"} {
		if got[key] != "[REDACTED]" {
			t.Errorf("%s = %q, want [REDACTED]", key, got[key])
		}
	}
	if got["Accept"] != "application/json,text/plain" {
		t.Errorf("Accept = %q, want joined values", got["Accept"])
	}
}

// --- Recovery ---

func TestRecovery_PanicBecomesProblem(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := followupRouter(func(http.ResponseWriter, *http.Request) {
		panic("mutation exploded")
	}, middleware.Recovery(testLogger(&buf)), middleware.RequestID())

	rec := postFollowup(t, h, "confA", http.Header{"X-Request-Id": {"req-panic"}})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if strings.Contains(problem.Detail, "exploded") {
		t.Errorf("problem detail leaks the panic value: %q", problem.Detail)
	}

	out := buf.String()
	for _, want := range []string{"panic recovered", "mutation exploded", followupsPattern} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestRecovery_HeadersAlreadyWritten(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := followupRouter(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		panic("late panic")
	}, middleware.Recovery(testLogger(&buf)))

	rec := postFollowup(t, h, "confA", nil)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want the already written 201", rec.Code)
	}
	if !strings.Contains(buf.String(), "late panic") {
		t.Error("panic was not logged")
	}
}

// --- Timeout ---

func TestTimeout_SlowHandlerIsGatewayTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	finished := make(chan struct{})
	h := followupRouter(func(w http.ResponseWriter, _ *http.Request) {
		defer close(finished)
		<-release
		w.WriteHeader(http.StatusOK)
	}, middleware.Timeout(20*time.Millisecond))

	rec := postFollowup(t, h, "confA", nil)
	close(release)
	<-finished

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if !strings.Contains(problem.Detail, domain.ErrOutcomeUnknown.Error()) {
		t.Errorf("detail = %q, want it to report an unknown outcome", problem.Detail)
	}
	if strings.Contains(problem.Detail, domain.ErrTransactionExpired.Error()) {
		t.Errorf("detail = %q claims the transaction expired", problem.Detail)
	}
}

// lateAckStore applies units regardless of the caller's deadline but holds
// back the commit acknowledgement until release is closed, like a store whose
// reply is lost in a slow network.
type lateAckStore struct {
	ports.DocumentStore
	release chan struct{}
	acked   chan struct{}
}

func (s *lateAckStore) Begin(ctx context.Context, policy durability.Policy) (ports.Unit, error) {
	u, err := s.DocumentStore.Begin(context.WithoutCancel(ctx), policy)
	if err != nil {
		return nil, err
	}
	return &lateAckUnit{Unit: u, store: s}, nil
}

type lateAckUnit struct {
	ports.Unit
	store *lateAckStore
}

func (u *lateAckUnit) Get(ctx context.Context, key string) (ports.Document, error) {
	return u.Unit.Get(context.WithoutCancel(ctx), key)
}

func (u *lateAckUnit) Replace(ctx context.Context, doc ports.Document, body []byte) error {
	return u.Unit.Replace(context.WithoutCancel(ctx), doc, body)
}

func (u *lateAckUnit) Commit(ctx context.Context) error {
	err := u.Unit.Commit(context.WithoutCancel(ctx))
	<-u.store.release
	close(u.store.acked)
	return err
}

func TestTimeout_CommittedFollowupIsNotReportedExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem, err := memstore.New(0)
	if err != nil {
		t.Fatalf("memstore.New() error = %v", err)
	}
	docs := &lateAckStore{DocumentStore: mem, release: make(chan struct{}), acked: make(chan struct{})}

	logger := slog.New(slog.DiscardHandler)
	runner := txn.New(docs, durability.Policy{}, &config.TransactionsConfig{
		Durability: "none",
		Timeout:    5 * time.Second,
		Retry:      config.RetryConfig{MaxAttempts: 1, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 2},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures: 5, Timeout: time.Second, HalfOpenLimit: 1,
		},
	}, nil, logger)
	svc := app.NewFollowupService(docs, runner, logger)
	if _, err := svc.Bootstrap(ctx, "confA", tracking.Seed{Name: "Team Offsite"}); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}

	h := followupRouter(handlers.NewEntityHandler(svc).RecordFollowup, middleware.Timeout(20*time.Millisecond))

	rec := postFollowup(t, h, "confA", nil)
	close(docs.release)
	<-docs.acked

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
	problem := decodeProblem(t, rec)
	if strings.Contains(problem.Detail, domain.ErrTransactionExpired.Error()) {
		t.Errorf("detail = %q tells the client a committed update expired", problem.Detail)
	}
	if !strings.Contains(problem.Detail, domain.ErrOutcomeUnknown.Error()) {
		t.Errorf("detail = %q, want it to report an unknown outcome", problem.Detail)
	}

	pair, err := svc.Get(ctx, "confA")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pair.Entity.Followups() != 1 || len(pair.Activities.Events) != 1 {
		t.Errorf("stored followups = %d, events = %d; want the commit to have landed once",
			pair.Entity.Followups(), len(pair.Activities.Events))
	}
}

func TestTimeout_FastHandlerPassesThrough(t *testing.T) {
	t.Parallel()

	h := followupRouter(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); !ok {
			t.Error("handler context has no deadline")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"followupCount":1}`))
	}, middleware.Timeout(time.Second))

	rec := postFollowup(t, h, "confA", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want buffered header copied", rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != `{"followupCount":1}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

// --- OpenTelemetry ---
// Not parallel: these install a global TracerProvider.

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	return exporter
}

func TestOpenTelemetry_SpanNamedByRoute(t *testing.T) {
	exporter := setupTracer(t)

	h := followupRouter(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, middleware.OpenTelemetry(nil))

	postFollowup(t, h, "confA", nil)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("len(spans) = %d, want 1", len(spans))
	}
	span := spans[0]
	if want := "HTTP POST " + followupsPattern; span.Name != want {
		t.Errorf("span name = %q, want %q", span.Name, want)
	}

	attrs := map[string]any{}
	for _, a := range span.Attributes {
		attrs[string(a.Key)] = a.Value.AsInterface()
	}
	if attrs["http.route"] != followupsPattern {
		t.Errorf("http.route = %v, want %q", attrs["http.route"], followupsPattern)
	}
	if attrs["http.status_code"] != int64(http.StatusOK) {
		t.Errorf("http.status_code = %v, want 200", attrs["http.status_code"])
	}
}

func TestOpenTelemetry_ErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{name: "domain abort stays unset", status: http.StatusUnprocessableEntity},
		{name: "conflict stays unset", status: http.StatusConflict},
		{name: "unavailable store is an error", status: http.StatusServiceUnavailable, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := setupTracer(t)

			h := followupRouter(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}, middleware.OpenTelemetry(nil))
			postFollowup(t, h, "confA", nil)

			spans := exporter.GetSpans()
			if len(spans) != 1 {
				t.Fatalf("len(spans) = %d, want 1", len(spans))
			}
			if got := spans[0].Status.Code == codes.Error; got != tt.wantError {
				t.Errorf("span error status = %v, want %v", got, tt.wantError)
			}
		})
	}
}
