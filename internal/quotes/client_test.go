package quotes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQuoteParsesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbols"); got != "RELIANCE.NS" {
			t.Errorf("symbols=%q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{
			"symbol":"RELIANCE.NS",
			"regularMarketPrice":2875.5,
			"regularMarketChange":12.5,
			"regularMarketChangePercent":0.44,
			"currency":"INR",
			"longName":"Reliance Industries Limited"
		}],"error":null}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	q, err := c.Quote(context.Background(), "reliance.ns")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if q.Price.StringFixed(2) != "2875.50" {
		t.Fatalf("price=%s", q.Price)
	}
	if q.Currency != "INR" || q.Name != "Reliance Industries Limited" {
		t.Fatalf("currency=%q name=%q", q.Currency, q.Name)
	}
	if q.Symbol != "RELIANCE.NS" {
		t.Fatalf("symbol=%q", q.Symbol)
	}
}

func TestQuoteMissingPriceIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"X.NS"}],"error":null}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	_, err := c.Quote(context.Background(), "X.NS")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
}

func TestQuoteHTTPErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	_, err := c.Quote(context.Background(), "TCS.NS")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
}

func TestQuoteEmptyResultIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	_, err := c.Quote(context.Background(), "NOPE.NS")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err=%v want ErrUnavailable", err)
	}
}
