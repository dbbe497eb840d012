package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter/internal/platform/metrics"
	"newsletter/internal/subscription/models"
	"newsletter/internal/subscription/service"
	"newsletter/internal/subscription/store"
	"newsletter/pkg/domain"
)

// Prometheus collectors register globally, so the package shares one instance.
var testMetrics = metrics.New()

type sentEmail struct {
	to       string
	htmlBody string
	textBody string
}

type captureSender struct {
	sent []sentEmail
}

func (s *captureSender) Send(_ context.Context, to domain.SubscriberEmail, _, htmlBody, textBody string) error {
	s.sent = append(s.sent, sentEmail{to: to.String(), htmlBody: htmlBody, textBody: textBody})
	return nil
}

// testApp wires the real service against the in-memory store so handler tests
// exercise the full request path.
type testApp struct {
	router *chi.Mux
	store  *store.MemoryStore
	sender *captureSender
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	mem := store.NewMemory()
	sender := &captureSender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(mem, mem, sender, logger, testMetrics, "http://localhost:8080", "Welcome!")

	router := chi.NewRouter()
	New(svc, logger, testMetrics).Register(router)
	return &testApp{router: router, store: mem, sender: sender}
}

func (a *testApp) postSubscription(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) getConfirm(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/subscriptions/confirm/"+token, nil)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// confirmationToken extracts the trailing path segment of the link in the
// latest confirmation email.
func (a *testApp) confirmationToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, a.sender.sent)
	body := a.sender.sent[len(a.sender.sent)-1].textBody
	idx := strings.Index(body, "http://")
	require.GreaterOrEqual(t, idx, 0)
	link := body[idx:]
	if cut := strings.IndexAny(link, " \n"); cut >= 0 {
		link = link[:cut]
	}
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	return segments[len(segments)-1]
}

func TestHandleSubscribe(t *testing.T) {
	t.Run("valid form data returns 200 and stores a pending row", func(t *testing.T) {
		app := newTestApp(t)
		rr := app.postSubscription("name=marcin&email=mail%40marszy.com")

		assert.Equal(t, http.StatusOK, rr.Code)
		saved, ok := app.store.GetByEmail("mail@marszy.com")
		require.True(t, ok)
		assert.Equal(t, "marcin", saved.Name)
		assert.Equal(t, models.StatusPending, saved.Status)
	})

	t.Run("missing email field returns 422", func(t *testing.T) {
		app := newTestApp(t)
		rr := app.postSubscription("name=marcin")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("missing name field returns 422", func(t *testing.T) {
		app := newTestApp(t)
		rr := app.postSubscription("email=mail%40marszy.com")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("empty name present in the form returns 400", func(t *testing.T) {
		app := newTestApp(t)
		rr := app.postSubscription("name=&email=ursula_le_guin%40gmail.com")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed email returns 400", func(t *testing.T) {
		app := newTestApp(t)
		rr := app.postSubscription("name=marcin&email=definitely-not-an-email")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate sign-up returns 500", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.postSubscription("name=marcin&email=mail%40marszy.com").Code)
		rr := app.postSubscription("name=marcin&email=mail%40marszy.com")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("sign-up sends exactly one email with the same link in both bodies", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.postSubscription("name=marcin&email=mail%40marszy.com").Code)

		require.Len(t, app.sender.sent, 1)
		sent := app.sender.sent[0]
		assert.Equal(t, "mail@marszy.com", sent.to)
		token := app.confirmationToken(t)
		link := "http://localhost:8080/subscriptions/confirm/" + token
		assert.Contains(t, sent.htmlBody, link)
		assert.Contains(t, sent.textBody, link)
	})

	t.Run("responses carry a request id header", func(t *testing.T) {
		app := newTestApp(t)
		rr := app.postSubscription("name=marcin&email=mail%40marszy.com")
		assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	})
}

func TestHandleConfirm(t *testing.T) {
	t.Run("clicking the confirmation link confirms the subscriber", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.postSubscription("name=marcin&email=mail%40marszy.com").Code)

		rr := app.getConfirm(app.confirmationToken(t))
		assert.Equal(t, http.StatusOK, rr.Code)

		saved, ok := app.store.GetByEmail("mail@marszy.com")
		require.True(t, ok)
		assert.Equal(t, models.StatusConfirmed, saved.Status)
	})

	t.Run("unknown token returns 401 and leaves status unchanged", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.postSubscription("name=marcin&email=mail%40marszy.com").Code)

		rr := app.getConfirm("aaaaaaaaaaaaaaaaaaaaaaaaa")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		saved, ok := app.store.GetByEmail("mail@marszy.com")
		require.True(t, ok)
		assert.Equal(t, models.StatusPending, saved.Status)
	})

	t.Run("confirming a second time still returns 200", func(t *testing.T) {
		app := newTestApp(t)
		require.Equal(t, http.StatusOK, app.postSubscription("name=marcin&email=mail%40marszy.com").Code)
		token := app.confirmationToken(t)

		require.Equal(t, http.StatusOK, app.getConfirm(token).Code)
		assert.Equal(t, http.StatusOK, app.getConfirm(token).Code)
	})
}

func TestHandleHealthCheck(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/health_check", nil)
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())
}
