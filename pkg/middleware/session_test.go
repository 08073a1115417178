package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/patatpalace/pkg/logger"
)

func sessionEcho() http.Handler {
	return Session(DefaultSessionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := SessionIDFromContext(r.Context())
		_, _ = w.Write([]byte(id))
	}))
}

func TestSession_IssuesCookieWhenMissing(t *testing.T) {
	rec := httptest.NewRecorder()
	sessionEcho().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	id := rec.Body.String()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "patat_session", cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_ReusesValidCookie(t *testing.T) {
	existing := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "patat_session", Value: existing})

	rec := httptest.NewRecorder()
	sessionEcho().ServeHTTP(rec, req)

	assert.Equal(t, existing, rec.Body.String())
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "patat_session", Value: "../../etc"})

	rec := httptest.NewRecorder()
	sessionEcho().ServeHTTP(rec, req)

	assert.NotEqual(t, "../../etc", rec.Body.String())
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
}

func TestRequestLogger_CarriesSessionAndCorrelation(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("test", "info", &buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
	})
	handler := RequestLogging(logger.NewWithWriter("test", "error", &bytes.Buffer{}))(
		Session(DefaultSessionConfig())(RequestLogger(base)(inner)),
	)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(CorrelationIDHeader, "corr-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "corr-42", out["correlation_id"])
	assert.NotEmpty(t, out["session_id"])
	assert.Equal(t, "corr-42", rec.Header().Get(CorrelationIDHeader))
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(logger.NewWithWriter("test", "error", &buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestSessionIssued(t *testing.T) {
	var issued []bool
	handler := Session(DefaultSessionConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		issued = append(issued, SessionIssued(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "patat_session", Value: uuid.New().String()})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []bool{true, false}, issued)
}
