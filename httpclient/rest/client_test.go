package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/lyrebird/httpclient"
)

type user struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func TestGet_DecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected JSON accept header")
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token")
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"a@b.co"}`))
	}))
	defer srv.Close()

	c, err := New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	resp, err := Get[user](context.Background(), c, "/auth/me", WithAuth(httpclient.BearerAuth("tok")))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.Data.Email != "a@b.co" {
		t.Errorf("unexpected data %+v", resp.Data)
	}
}

func TestPost_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Email already registered"}}`))
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	_, err := Post[user](context.Background(), c, "/auth/register", map[string]string{"email": "a@b.co"})
	e, ok := httpclient.AsError(err)
	if !ok || e.StatusCode != http.StatusBadRequest || e.Message != "Email already registered" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPost_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, _ := New(httpclient.Config{BaseURL: srv.URL})
	if _, err := Post[user](context.Background(), c, "/x", nil); err == nil {
		t.Fatal("expected decode error")
	}
}
