package intercept

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/navgate/navgate/session"
	"github.com/navgate/navgate/storage"
)

// scriptedBase returns canned responses in order and records every request
// it saw, including the body content at send time.
type scriptedBase struct {
	mu        sync.Mutex
	responses []*http.Response
	requests  []*http.Request
	bodies    []string
}

func (s *scriptedBase) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body string
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(b)
	}
	s.requests = append(s.requests, req)
	s.bodies = append(s.bodies, body)

	if len(s.responses) == 0 {
		return nil, errors.New("no scripted response left")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func respond(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}
}

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fetcherFunc func(ctx context.Context) (*session.User, error)

func (f fetcherFunc) Me(ctx context.Context) (*session.User, error) { return f(ctx) }

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(fetcherFunc(func(context.Context) (*session.User, error) {
		return nil, errors.New("store must not fetch in transport tests")
	}), storage.NewMemory(), session.Options{})
}

func TestRoundTripPassesThroughNon401(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{respond(http.StatusOK)}}
	refresher := &fakeRefresher{}
	tr := NewTransport(refresher, newTestStore(t), nil, Options{Base: base})

	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/data", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if refresher.callCount() != 0 {
		t.Fatalf("expected no refresh, got %d", refresher.callCount())
	}
	if len(base.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(base.requests))
	}
}

func TestRoundTripRefreshesAndReplaysOnceOn401(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{
		respond(http.StatusUnauthorized),
		respond(http.StatusOK),
	}}
	refresher := &fakeRefresher{}
	tr := NewTransport(refresher, newTestStore(t), nil, Options{Base: base})

	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/data", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected replay to succeed with 200, got %d", resp.StatusCode)
	}
	if refresher.callCount() != 1 {
		t.Fatalf("expected exactly 1 refresh, got %d", refresher.callCount())
	}
	if len(base.requests) != 2 {
		t.Fatalf("expected original + replay, got %d requests", len(base.requests))
	}
}

func TestRoundTripReplays401Unrecovered(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{
		respond(http.StatusUnauthorized),
		respond(http.StatusUnauthorized),
	}}
	refresher := &fakeRefresher{}
	tr := NewTransport(refresher, newTestStore(t), nil, Options{Base: base})

	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/data", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected the replay's 401 returned as-is, got %d", resp.StatusCode)
	}
	if refresher.callCount() != 1 {
		t.Fatalf("a replayed 401 must not refresh again, got %d refreshes", refresher.callCount())
	}
	if len(base.requests) != 2 {
		t.Fatalf("expected exactly 2 requests, got %d", len(base.requests))
	}
}

func TestRoundTripRefreshFailureClearsSessionAndNavigates(t *testing.T) {
	ctx := context.Background()
	base := &scriptedBase{responses: []*http.Response{respond(http.StatusUnauthorized)}}
	refreshErr := errors.New("refresh token expired")
	refresher := &fakeRefresher{err: refreshErr}

	store := newTestStore(t)
	store.Set(ctx, &session.User{ID: "u1", Role: session.RoleViewer})

	var navigated string
	nav := NavigatorFunc(func(path string) { navigated = path })

	tr := NewTransport(refresher, store, nav, Options{Base: base, LoginPath: "/signin"})

	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/data", nil)
	resp, err := tr.RoundTrip(req)
	if resp != nil {
		t.Fatal("expected no response after failed recovery")
	}
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("expected ErrRefreshFailed, got %v", err)
	}
	if !errors.Is(err, refreshErr) {
		t.Fatalf("expected the underlying refresh error joined in, got %v", err)
	}

	if store.Current(ctx) != nil {
		t.Fatal("expected session cleared after failed refresh")
	}
	if navigated != "/signin" {
		t.Fatalf("expected navigation to /signin, got %q", navigated)
	}
}

func TestRoundTripReplayRestoresBody(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{
		respond(http.StatusUnauthorized),
		respond(http.StatusOK),
	}}
	refresher := &fakeRefresher{}
	tr := NewTransport(refresher, newTestStore(t), nil, Options{Base: base})

	payload := `{"title":"draft"}`
	req, _ := http.NewRequest(http.MethodPost, "https://app.example.com/posts",
		bytes.NewReader([]byte(payload)))

	if _, err := tr.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if len(base.bodies) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(base.bodies))
	}
	if base.bodies[0] != payload || base.bodies[1] != payload {
		t.Fatalf("replay body mismatch: first %q, second %q", base.bodies[0], base.bodies[1])
	}
}

func TestRoundTripNonRewindableBodyReturns401Untouched(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{respond(http.StatusUnauthorized)}}
	refresher := &fakeRefresher{}
	tr := NewTransport(refresher, newTestStore(t), nil, Options{Base: base})

	req, _ := http.NewRequest(http.MethodPost, "https://app.example.com/upload",
		strings.NewReader("streamed"))
	req.GetBody = nil // simulate a one-shot body

	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected the original 401, got %d", resp.StatusCode)
	}
	if refresher.callCount() != 0 {
		t.Fatalf("non-replayable request must not refresh, got %d", refresher.callCount())
	}
}

func TestRoundTripAppliesCredentials(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{respond(http.StatusOK)}}
	tr := NewTransport(&fakeRefresher{}, newTestStore(t), nil, Options{
		Base: base,
		Credentials: CredentialsFunc(func(req *http.Request) error {
			req.Header.Set("Authorization", "Bearer tok")
			return nil
		}),
	})

	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/data", nil)
	if _, err := tr.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if got := base.requests[0].Header.Get("Authorization"); got != "Bearer tok" {
		t.Fatalf("expected credentials applied, got %q", got)
	}
}

type staticTokens string

func (s staticTokens) AccessToken() string { return string(s) }

func expiredJWT(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing test token failed: %v", err)
	}
	return raw
}

func TestProactiveRefreshOnExpiredToken(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{respond(http.StatusOK)}}
	refresher := &fakeRefresher{}
	tr := NewTransport(refresher, newTestStore(t), nil, Options{
		Base:             base,
		ProactiveRefresh: true,
		Tokens:           staticTokens(expiredJWT(t)),
	})

	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/data", nil)
	if _, err := tr.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if refresher.callCount() != 1 {
		t.Fatalf("expected proactive refresh before send, got %d", refresher.callCount())
	}
	if len(base.requests) != 1 {
		t.Fatalf("expected a single send, got %d", len(base.requests))
	}
}

func TestProactiveRefreshSkipsMalformedToken(t *testing.T) {
	base := &scriptedBase{responses: []*http.Response{respond(http.StatusOK)}}
	refresher := &fakeRefresher{}
	tr := NewTransport(refresher, newTestStore(t), nil, Options{
		Base:             base,
		ProactiveRefresh: true,
		Tokens:           staticTokens("not-a-jwt"),
	})

	req, _ := http.NewRequest(http.MethodGet, "https://app.example.com/data", nil)
	if _, err := tr.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	if refresher.callCount() != 0 {
		t.Fatalf("malformed token must not trigger refresh, got %d", refresher.callCount())
	}
}
