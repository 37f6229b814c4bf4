package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/navgate/navgate/session"
)

func userJSON() string {
	return `{"id":"u1","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","role":"ADMIN","isActive":true}`
}

func TestMeReturnsUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/auth/me" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":` + userJSON() + `}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	u, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if u == nil || u.ID != "u1" || u.Role != session.RoleAdmin {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestMeNullDataMeansAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"message":"no session","data":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	u, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("anonymous answer must not error, got %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil user, got %+v", u)
	}
}

func TestMe401MatchesErrUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.Message != "token expired" {
		t.Fatalf("expected envelope message carried, got %q", se.Message)
	}
}

func TestMeNon401StatusDoesNotMatchUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("a 500 must not match ErrUnauthorized")
	}
}

func TestMeMalformedBodyIsProtocolError(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<!doctype html>"},
		{"bad role", `{"success":true,"data":{"id":"u1","role":"WIZARD"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, srv.Client())
			_, err := c.Me(context.Background())
			if !errors.Is(err, ErrProtocol) {
				t.Fatalf("expected ErrProtocol, got %v", err)
			}
		})
	}
}

func TestLoginPostsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding login payload: %v", err)
		}
		if req.Email != "ada@example.com" || req.Password != "hunter2" {
			t.Errorf("unexpected payload: %+v", req)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":` + userJSON() + `}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	u, err := c.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "hunter2"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if u == nil || u.ID != "u1" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestRegisterPostsToSignup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/signup" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding signup payload: %v", err)
		}
		if payload["password"] != "hunter2" || payload["email"] != "ada@example.com" {
			t.Errorf("unexpected payload: %v", payload)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":` + userJSON() + `}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	u, err := c.Register(context.Background(), Registration{
		User:     session.User{Email: "ada@example.com", FirstName: "Ada", Role: session.RoleViewer},
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u == nil || u.ID != "u1" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestRefreshHitsRefreshEndpoint(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if path != "/auth/refresh" {
		t.Fatalf("expected /auth/refresh, got %q", path)
	}
}

func TestBaseURLTrailingSlashNormalized(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if path != "/auth/me" {
		t.Fatalf("expected /auth/me, got %q", path)
	}
}
