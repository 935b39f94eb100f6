package rates

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestConvert_ParsesRateAndNormalizesCase(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Errorf("path = %q, want /latest", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"amount":1000,"base":"USD","date":"2026-03-02","rates":{"EUR":950.0}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	res, err := c.Convert(context.Background(), 1000, "usd", "eur")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if res.Converted != 950 {
		t.Fatalf("Converted = %v, want 950", res.Converted)
	}
	if math.Abs(res.Rate-0.95) > 1e-9 {
		t.Fatalf("Rate = %v, want 0.95", res.Rate)
	}
	if res.From != "USD" || res.To != "EUR" {
		t.Fatalf("codes not upper-cased: %s -> %s", res.From, res.To)
	}
	if res.Date != "2026-03-02" {
		t.Fatalf("Date = %q", res.Date)
	}
	for _, want := range []string{"amount=1000", "from=USD", "to=EUR"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestConvert_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	if _, err := c.Convert(context.Background(), 10, "USD", "XXX"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestConvert_MissingTargetRateIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount":10,"base":"USD","date":"2026-03-02","rates":{"GBP":7.9}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	if _, err := c.Convert(context.Background(), 10, "USD", "EUR"); err == nil {
		t.Fatalf("expected error when target rate absent")
	}
}

func TestConvert_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := New(srv.URL, srv.Client())
	if _, err := c.Convert(ctx, 10, "USD", "EUR"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
