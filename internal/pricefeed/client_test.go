package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTCUSD" {
			t.Errorf("symbol = %q, ожидали BTCUSD", got)
		}
		_, _ = w.Write([]byte(`{"symbol":"BTCUSD","price":64123.5}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	price, err := c.Quote(context.Background(), "BTCUSD")
	if err != nil {
		t.Fatal(err)
	}
	if price != 64123.5 {
		t.Errorf("цена %v, ожидали 64123.5", price)
	}
}

func TestClient_QuoteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "NOPE":
			http.Error(w, "unknown symbol", http.StatusNotFound)
		case "ZERO":
			_, _ = w.Write([]byte(`{"symbol":"ZERO","price":0}`))
		default:
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Quote(context.Background(), "NOPE"); err == nil {
		t.Error("http 404 должен превращаться в ошибку")
	}
	if _, err := c.Quote(context.Background(), "ZERO"); err == nil {
		t.Error("нулевая цена должна отклоняться")
	}
	if _, err := c.Quote(context.Background(), "BAD"); err == nil {
		t.Error("мусор в теле должен превращаться в ошибку")
	}
}
