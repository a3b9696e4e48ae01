package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bolsillo/internal/storage"
	"bolsillo/internal/storage/memory"
)

const dolarapiBody = `{"moneda":"USD","casa":"oficial","nombre":"Oficial","compra":1405,"venta":1455.5,"fechaActualizacion":"2026-10-17T18:00:00.000Z"}`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := newServer(t, http.StatusOK, dolarapiBody)
	q, err := NewClient(srv.URL, time.Second, DefaultPaths).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !q.Buy.Equal(decimal.NewFromInt(1405)) || !q.Sell.Equal(decimal.RequireFromString("1455.5")) {
		t.Errorf("Fetch() = %+v", q)
	}
	want := time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC)
	if !q.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", q.UpdatedAt, want)
	}
}

func TestClient_FetchFormats(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		paths    Paths
		wantSell string
		wantErr  bool
	}{
		{
			name:     "string numbers",
			body:     `{"compra":"1.405,00","venta":"1455.25"}`,
			paths:    DefaultPaths,
			wantSell: "1455.25",
		},
		{
			name:     "nested provider",
			body:     `{"rates":[{"bid":10,"ask":"12,5","ts":"2026-10-01T00:00:00Z"}]}`,
			paths:    Paths{Buy: "$.rates[0].bid", Sell: "$.rates[0].ask", Updated: "$.rates[0].ts"},
			wantSell: "12.5",
		},
		{
			name:     "missing update time",
			body:     `{"compra":1,"venta":2}`,
			paths:    DefaultPaths,
			wantSell: "2",
		},
		{name: "missing sell", body: `{"compra":1}`, paths: DefaultPaths, wantErr: true},
		{name: "zero rate", body: `{"compra":0,"venta":0}`, paths: DefaultPaths, wantErr: true},
		{name: "not a number", body: `{"compra":true,"venta":2}`, paths: DefaultPaths, wantErr: true},
		{name: "not json", body: `<html>`, paths: DefaultPaths, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, tt.body)
			q, err := NewClient(srv.URL, time.Second, tt.paths).Fetch(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Fetch() = %+v, want an error", q)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if !q.Sell.Equal(decimal.RequireFromString(tt.wantSell)) {
				t.Errorf("Sell = %s, want %s", q.Sell, tt.wantSell)
			}
		})
	}
}

func TestClient_FetchHTTPError(t *testing.T) {
	srv := newServer(t, http.StatusServiceUnavailable, `{"error":"down"}`)
	if _, err := NewClient(srv.URL, time.Second, DefaultPaths).Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() should fail on a 503")
	}
}

func TestClient_FetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond, DefaultPaths).Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() should time out")
	}
}

// stubFetcher returns quote, or err when set.
type stubFetcher struct {
	mu    sync.Mutex
	quote Quote
	err   error
	calls int
}

func (f *stubFetcher) Fetch(context.Context) (Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.quote, f.err
}

func quote(buy, sell int64) Quote {
	return Quote{
		Buy:       decimal.NewFromInt(buy),
		Sell:      decimal.NewFromInt(sell),
		UpdatedAt: time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC),
	}
}

func TestService_CurrentCachesQuote(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(nil)
	f := &stubFetcher{quote: quote(1000, 1050)}
	svc := NewService(f, kv)

	res, err := svc.Current(ctx)
	if err != nil || res.Stale {
		t.Fatalf("Current() = %+v, %v", res, err)
	}

	cached, found, err := svc.LastKnown(ctx)
	if err != nil || !found || !cached.Sell.Equal(decimal.NewFromInt(1050)) {
		t.Fatalf("LastKnown() = %+v, %v, %v", cached, found, err)
	}
	raw, _, _ := kv.Get(ctx, storage.KeyLastKnownRate)
	if raw == "" {
		t.Fatal("lastKnownRate was not written")
	}
}

func TestService_CurrentFallsBackToLastKnown(t *testing.T) {
	ctx := context.Background()
	kv := memory.New(map[string]string{
		storage.KeyLastKnownRate: `{"compra":900,"venta":950,"fechaActualizacion":"2026-10-01T10:00:00Z"}`,
	})
	down := errors.New("connection refused")
	svc := NewService(&stubFetcher{err: down}, kv)

	res, err := svc.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if !res.Stale || !errors.Is(res.FetchErr, down) {
		t.Errorf("Current() = %+v, want a stale result", res)
	}
	if !res.Quote.Sell.Equal(decimal.NewFromInt(950)) {
		t.Errorf("Sell = %s, want 950", res.Quote.Sell)
	}
}

func TestService_CurrentWithoutAnyRate(t *testing.T) {
	ctx := context.Background()
	for name, seed := range map[string]map[string]string{
		"empty":     nil,
		"malformed": {storage.KeyLastKnownRate: `{"venta":`},
		"zero":      {storage.KeyLastKnownRate: `{"compra":0,"venta":0}`},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewService(&stubFetcher{err: errors.New("offline")}, memory.New(seed))
			if _, err := svc.Current(ctx); !errors.Is(err, ErrNoRate) {
				t.Fatalf("Current() error = %v, want ErrNoRate", err)
			}
		})
	}
}

func TestService_MinAge(t *testing.T) {
	ctx := context.Background()
	f := &stubFetcher{quote: quote(1, 2)}
	svc := NewService(f, memory.New(nil), WithMinAge(time.Hour))

	for i := 0; i < 3; i++ {
		if _, err := svc.Current(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if f.calls != 1 {
		t.Errorf("provider called %d times, want 1", f.calls)
	}

	f2 := &stubFetcher{quote: quote(1, 2)}
	svc = NewService(f2, memory.New(nil))
	svc.Current(ctx)
	svc.Current(ctx)
	if f2.calls != 2 {
		t.Errorf("without min age the provider was called %d times, want 2", f2.calls)
	}
}

func TestService_MinAgeExpires(t *testing.T) {
	ctx := context.Background()
	f := &stubFetcher{quote: quote(1, 2)}
	svc := NewService(f, memory.New(nil), WithMinAge(time.Minute))
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.fresh.WithClock(func() time.Time { return now })

	svc.Current(ctx)
	now = now.Add(59 * time.Second)
	svc.Current(ctx)
	if f.calls != 1 {
		t.Fatalf("provider called %d times within min age, want 1", f.calls)
	}

	now = now.Add(time.Second)
	svc.Current(ctx)
	if f.calls != 2 {
		t.Errorf("provider called %d times after min age, want 2", f.calls)
	}
}

func TestService_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := NewService(&stubFetcher{quote: quote(1, 2)}, memory.New(nil))

	var results []Result
	err := svc.Watch(ctx, time.Millisecond, func(res Result, err error) {
		if err != nil {
			t.Errorf("watch error = %v", err)
		}
		results = append(results, res)
		if len(results) == 2 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d refreshes, want 2", len(results))
	}
}
