package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharma-console/internal/dashboard"
	"pharma-console/internal/domain"
	"pharma-console/internal/navigation"
	"pharma-console/internal/service"
	"pharma-console/internal/session"
	"pharma-console/internal/storage"
)

const testCookie = "pharma_session"

type fakeArchive struct {
	url     string
	err     error
	keys    []string
	objects []storage.ObjectInfo
	prefix  string
}

func (f *fakeArchive) ListObjects(_ context.Context, _ string, prefix string) ([]storage.ObjectInfo, error) {
	f.prefix = prefix
	return f.objects, nil
}

func (f *fakeArchive) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	f.keys = append(f.keys, bucket+"/"+key)
	return f.url, f.err
}

type memAudit struct {
	events []domain.AuditEvent
	err    error
}

func (m *memAudit) Init(context.Context) error { return nil }

func (m *memAudit) Record(_ context.Context, ev *domain.AuditEvent) (int64, error) {
	ev.ID = int64(len(m.events) + 1)
	ev.CreatedAt = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	m.events = append(m.events, *ev)
	return ev.ID, nil
}

func (m *memAudit) ListRecent(_ context.Context, limit int) ([]domain.AuditEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.AuditEvent, 0, len(m.events))
	for i := len(m.events) - 1; i >= 0; i-- {
		out = append(out, m.events[i])
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type testServer struct {
	router   *gin.Engine
	sessions *session.Registry
	cookie   *http.Cookie
}

func withAudit(audit *memAudit) func(*Config) {
	return func(cfg *Config) {
		cfg.Audit = audit
		cfg.Auth = service.NewAuthService(audit, cfg.Logger)
	}
}

func newTestServer(t *testing.T, archive storage.Service, opts ...func(*Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	table, err := dashboard.RouteTable()
	require.NoError(t, err)

	sessions := session.NewRegistry()
	cfg := Config{
		Auth:       service.NewAuthService(nil, logger),
		Sessions:   sessions,
		Tokens:     session.NewTokens("test-secret", time.Hour),
		Guard:      navigation.NewGuard(table),
		CookieName: testCookie,
		Archive:    archive,
		Bucket:     "reports-bucket",
		KeyPrefix:  "reports",
		Logger:     logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	handler := NewHandler(cfg)

	router := gin.New()
	require.NoError(t, handler.RegisterRoutes(router))
	return &testServer{router: router, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name != testCookie {
			continue
		}
		if c.MaxAge < 0 || c.Value == "" {
			s.cookie = nil
		} else {
			s.cookie = c
		}
	}
	return rec
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return s.do(t, http.MethodGet, target, nil, "")
}

func (s *testServer) loginForm(t *testing.T, values url.Values) *httptest.ResponseRecorder {
	return s.do(t, http.MethodPost, "/login", strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func validValues() url.Values {
	return url.Values{
		"name":         {"A"},
		"email":        {"a@x.com"},
		"process_area": {"GDSD"},
		"persona":      {"Scientist"},
	}
}

func (s *testServer) session(t *testing.T) SessionResponse {
	t.Helper()
	rec := s.get(t, "/api/session")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGuard_LoginThenAnalytics(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.get(t, "/process-analytics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in to access")
	assert.NotContains(t, rec.Body.String(), "Real Time Process Monitoring")

	rec = s.loginForm(t, validValues())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.NotNil(t, s.cookie)
	assert.True(t, s.cookie.HttpOnly)

	rec = s.get(t, "/process-analytics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Real Time Process Monitoring")
	assert.Contains(t, body, "Batch: "+dashboard.DefaultBatch)
	assert.NotContains(t, body, "Sign in to access")
}

func TestGuard_BatchParameter(t *testing.T) {
	s := newTestServer(t, nil)
	s.loginForm(t, validValues())

	rec := s.get(t, "/process-analytics?batch=MBE17060-066")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Batch: MBE17060-066")
}

func TestGuard_BlankBatchIsEchoed(t *testing.T) {
	s := newTestServer(t, nil)
	s.loginForm(t, validValues())

	rec := s.get(t, "/process-analytics?batch=%20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Batch: "+dashboard.DefaultBatch)

	rec = s.get(t, "/process-analytics?batch=")
	assert.Contains(t, rec.Body.String(), "Batch: "+dashboard.DefaultBatch)
}

func TestGuard_PathCaseIsIgnored(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.get(t, "/Process-Analytics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in to access")

	s.loginForm(t, validValues())
	for _, path := range []string{"/Process-Analytics", "/PROCESS-ANALYTICS", "/process-analytics/"} {
		rec = s.get(t, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Real Time Process Monitoring", path)
	}
}

func TestGuard_TrailingSlashRendersWithoutRedirect(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.get(t, "/automatic-reports/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "Sign in to access")

	s.loginForm(t, validValues())
	rec = s.get(t, "/automatic-reports/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Automatic Reports")
}

func TestGuard_HomeShowsUser(t *testing.T) {
	s := newTestServer(t, nil)
	s.loginForm(t, validValues())

	rec := s.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, A")
	assert.Contains(t, body, "Gene &amp; Cell Discovery Sciences")
	assert.Contains(t, body, "Platform Capabilities for Scientist")
	assert.Contains(t, body, "/process-analytics?batch=MBE17060-64")
}

func TestGuard_UnknownPathWhileAuthenticated(t *testing.T) {
	s := newTestServer(t, nil)
	s.loginForm(t, validValues())
	before := s.session(t)

	rec := s.get(t, "/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	assert.Equal(t, before, s.session(t))
	assert.True(t, before.Authenticated)
}

func TestGuard_UnknownPathWhileSignedOut(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.get(t, "/does-not-exist")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in to access")
}

func TestLoginForm_IncompleteLeavesSession(t *testing.T) {
	for _, field := range []string{"name", "email", "process_area", "persona"} {
		t.Run(field, func(t *testing.T) {
			s := newTestServer(t, nil)
			values := validValues()
			values.Set(field, "")

			rec := s.loginForm(t, values)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), "Please complete")
			assert.Nil(t, s.cookie)
			assert.False(t, s.session(t).Authenticated)
			assert.Zero(t, s.sessions.Len())

			// a signed-in session keeps its user
			require.Equal(t, http.StatusSeeOther, s.loginForm(t, validValues()).Code)
			before := s.session(t)
			s.loginForm(t, values)
			assert.Equal(t, before, s.session(t))
		})
	}
}

func TestLoginForm_PreservesEnteredValues(t *testing.T) {
	s := newTestServer(t, nil)
	values := validValues()
	values.Set("persona", "")

	rec := s.loginForm(t, values)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="a@x.com"`)
	assert.Contains(t, body, `<option value="GDSD" selected>`)
	assert.Contains(t, body, "persona")
}

func TestLogout_Twice(t *testing.T) {
	s := newTestServer(t, nil)
	s.loginForm(t, validValues())
	require.Equal(t, 1, s.sessions.Len())
	staleCookie := s.cookie

	rec := s.do(t, http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, s.cookie)
	assert.Zero(t, s.sessions.Len())

	rec = s.do(t, http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, s.session(t).Authenticated)

	// replaying the old cookie no longer reaches a session
	s.cookie = staleCookie
	rec = s.get(t, "/process-analytics")
	assert.Contains(t, rec.Body.String(), "Sign in to access")
	assert.Nil(t, s.cookie)
}

func TestAPI_SessionLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, SessionResponse{}, s.session(t))

	rec := s.do(t, http.MethodPost, "/api/session", strings.NewReader(`{"name":"A","email":"a@x.com","processArea":"GDSD","persona":"Scientist"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	var created SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.User)
	assert.NotEmpty(t, created.User.ID)
	assert.Equal(t, "GDSD", created.User.ProcessArea)

	got := s.session(t)
	assert.Equal(t, created, got)

	rec = s.do(t, http.MethodDelete, "/api/session", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/session", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, SessionResponse{}, s.session(t))
}

func TestAPI_IncompleteLogin(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/session", strings.NewReader(`{"name":"A","email":"","processArea":"GDSD","persona":"Scientist"}`), "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"email"}, body.Missing)
	assert.False(t, s.session(t).Authenticated)

	rec = s.do(t, http.MethodPost, "/api/session", strings.NewReader(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_RoutesAndCapabilities(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.get(t, "/api/routes")
	require.Equal(t, http.StatusOK, rec.Code)
	var routes []RouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	require.Len(t, routes, 12)
	assert.Equal(t, RouteResponse{Pattern: "*", Name: "not-found", Kind: "not-found"}, routes[len(routes)-1])

	rec = s.get(t, "/api/capabilities")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.loginForm(t, validValues())
	rec = s.get(t, "/api/capabilities")
	require.Equal(t, http.StatusOK, rec.Code)
	var caps []CapabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &caps))
	assert.Len(t, caps, 7)
	assert.Equal(t, "maintenance", caps[4].Status)

	rec = s.get(t, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEveryPageRendersWhenSignedIn(t *testing.T) {
	s := newTestServer(t, nil)
	s.loginForm(t, validValues())

	for _, p := range dashboard.Pages() {
		rec := s.get(t, p.Path)
		assert.Equal(t, http.StatusOK, rec.Code, p.Path)
		assert.Contains(t, rec.Body.String(), escaped(p.Title), p.Path)
	}
}

// escaped mirrors html/template escaping for the fixture titles.
func escaped(s string) string {
	return strings.ReplaceAll(s, "&", "&amp;")
}

func TestDownloadReport(t *testing.T) {
	archive := &fakeArchive{url: "https://example.test/signed"}
	s := newTestServer(t, archive)

	rec := s.get(t, "/reports/monthly-process-summary/download")
	assert.Contains(t, rec.Body.String(), "Sign in to access")
	assert.Empty(t, archive.keys)

	s.loginForm(t, validValues())

	rec = s.get(t, "/automatic-reports")
	assert.Contains(t, rec.Body.String(), "/reports/monthly-process-summary/download")

	rec = s.get(t, "/reports/monthly-process-summary/download")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://example.test/signed", rec.Header().Get("Location"))
	assert.Equal(t, []string{"reports-bucket/reports/monthly-process-summary.pdf"}, archive.keys)

	rec = s.get(t, "/reports/quality-control-report/download")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	archive.err = fmt.Errorf("wrapped: %w", storage.ErrObjectNotFound)
	rec = s.get(t, "/reports/analytical-method-validation/download")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	archive.err = fmt.Errorf("boom")
	rec = s.get(t, "/reports/analytical-method-validation/download")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDownloadReport_NoArchive(t *testing.T) {
	s := newTestServer(t, nil)
	s.loginForm(t, validValues())

	rec := s.get(t, "/automatic-reports")
	assert.NotContains(t, rec.Body.String(), "/download")

	rec = s.get(t, "/reports/monthly-process-summary/download")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListArchive(t *testing.T) {
	modified := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	archive := &fakeArchive{objects: []storage.ObjectInfo{
		{Key: "reports/monthly-process-summary.pdf", Size: 2400000, LastModified: &modified},
		{Key: "reports/analytical-method-validation.pdf", Size: 5200000},
	}}
	s := newTestServer(t, archive)

	rec := s.get(t, "/api/reports/archive")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.loginForm(t, validValues())
	rec = s.get(t, "/api/reports/archive")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reports", archive.prefix)

	var objects []StorageObjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &objects))
	require.Len(t, objects, 2)
	require.NotNil(t, objects[0].LastModified)
	assert.Equal(t, "2024-03-15T09:00:00Z", *objects[0].LastModified)
	assert.Nil(t, objects[1].LastModified)

	none := newTestServer(t, nil)
	none.loginForm(t, validValues())
	assert.Equal(t, http.StatusNotFound, none.get(t, "/api/reports/archive").Code)
}

func TestListAudit(t *testing.T) {
	audit := &memAudit{}
	s := newTestServer(t, nil, withAudit(audit))

	rec := s.get(t, "/api/audit")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.loginForm(t, validValues())
	s.do(t, http.MethodPost, "/logout", nil, "")
	s.loginForm(t, validValues())

	rec = s.get(t, "/api/audit")
	require.Equal(t, http.StatusOK, rec.Code)
	var events []AuditEventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 3)
	assert.Equal(t, "login", events[0].Action)
	assert.Equal(t, "logout", events[1].Action)
	assert.Equal(t, "a@x.com", events[1].Email)
	assert.Equal(t, "GDSD", events[1].ProcessArea)
	assert.Equal(t, "2024-03-15T09:00:00Z", events[2].CreatedAt)

	rec = s.get(t, "/api/audit?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 1)

	assert.Equal(t, http.StatusBadRequest, s.get(t, "/api/audit?limit=ten").Code)

	audit.err = fmt.Errorf("disk gone")
	assert.Equal(t, http.StatusInternalServerError, s.get(t, "/api/audit").Code)

	none := newTestServer(t, nil)
	none.loginForm(t, validValues())
	assert.Equal(t, http.StatusNotFound, none.get(t, "/api/audit").Code)
}
