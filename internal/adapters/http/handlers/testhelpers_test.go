package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func freshPair() *tracking.Pair {
	return &tracking.Pair{
		Entity:     tracking.NewEntity(tracking.Seed{Name: "Team Offsite", Location: "Online"}),
		Activities: tracking.NewActivityLog("confA"),
	}
}

func updatedPair() *tracking.Pair {
	p := freshPair()
	count := 1
	at := testTime
	p.Entity.FollowupCount = &count
	p.Entity.LastActivityAt = &at
	p.Activities.Events = append(p.Activities.Events, tracking.Event{
		Type: "CFP", OccurredAt: testTime, Description: "Submitted",
	})
	return p
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
