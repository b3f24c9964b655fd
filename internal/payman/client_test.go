package payman

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExchangeCodeSendsClientCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth2/token" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Fatalf("missing or wrong basic auth: %q/%q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" || r.PostForm.Get("code") != "abc123" {
			t.Fatalf("unexpected form: %v", r.PostForm)
		}
		_ = json.NewEncoder(w).Encode(Token{AccessToken: "supporter-token", ExpiresIn: 3600})
	}))
	defer srv.Close()

	c := NewClient(Options{ClientID: "client-id", ClientSecret: "client-secret", BaseURL: srv.URL})
	token, err := c.ExchangeCode(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if token.AccessToken != "supporter-token" || token.ExpiresIn != 3600 {
		t.Fatalf("unexpected token: %+v", token)
	}
}

func TestExchangeCodeRejectsEmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(Token{})
	}))
	defer srv.Close()

	c := NewClient(Options{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL})
	if _, err := c.ExchangeCode(context.Background(), "abc123"); err == nil {
		t.Fatal("expected error for empty access token")
	}
}

func TestExchangeCodeWithoutCredentials(t *testing.T) {
	c := NewClient(Options{})
	if _, err := c.ExchangeCode(context.Background(), "abc123"); err != ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestSendPaymentUsesSupporterToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/send-payment" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer supporter-token" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		var req SendPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.PayeeID != "payee-1" || req.Amount != 10 {
			t.Fatalf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(Payment{ID: "pay-42", Status: "COMPLETED"})
	}))
	defer srv.Close()

	c := NewClient(Options{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL})
	payment, err := c.SendPayment(context.Background(), "supporter-token", SendPaymentRequest{PayeeID: "payee-1", Amount: 10})
	if err != nil {
		t.Fatalf("send payment failed: %v", err)
	}
	if payment.ID != "pay-42" {
		t.Fatalf("unexpected payment id: %q", payment.ID)
	}
}

func TestSendPaymentRejectsNonPositiveAmount(t *testing.T) {
	c := NewClient(Options{ClientID: "id", ClientSecret: "secret"})
	if _, err := c.SendPayment(context.Background(), "token", SendPaymentRequest{PayeeID: "p", Amount: 0}); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestErrorResponseSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"code":"insufficient_funds","message":"wallet balance too low"}`))
	}))
	defer srv.Close()

	c := NewClient(Options{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL})
	_, err := c.SendPayment(context.Background(), "token", SendPaymentRequest{PayeeID: "p", Amount: 5})
	if err == nil || !strings.Contains(err.Error(), "wallet balance too low") {
		t.Fatalf("expected upstream message in error, got %v", err)
	}
}

func TestCreatePayeeRequiresPaytag(t *testing.T) {
	c := NewClient(Options{ClientID: "id", ClientSecret: "secret"})
	if _, err := c.CreatePayee(context.Background(), "token", CreatePayeeRequest{Name: "Ada"}); err == nil {
		t.Fatal("expected error for missing paytag")
	}
}
