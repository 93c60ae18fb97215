package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"zakatportal/internal"
	"zakatportal/internal/api"
	"zakatportal/internal/session"
	"zakatportal/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

// fakeBackend stands in for the Zakat API. Handlers can be swapped per test.
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	handlers map[string]http.HandlerFunc
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{handlers: map[string]http.HandlerFunc{}}

	b.on("POST /ApplcnLogin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"username":"aminah","name":"Aminah Binti Ali"}}`))
	})
	b.on("POST /validationR/verify-nric", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"verified"}`))
	})
	b.on("GET /marital-statuses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"status_id":1,"status_name":"Single"},{"status_id":2,"status_name":"Married"}]`))
	})
	b.on("GET /asnaf-categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"category_id":1,"name":"Fakir","description":"No means of livelihood"}]`))
	})
	b.on("GET /ApplcnProfile", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"applicant_id":9,"full_name":"Aminah Binti Ali","nric":"900101141234","date_of_birth":"1990-01-01","marital_status_id":1,"status_name":"Single","salary":"2500.00","username":"aminah"}`))
	})

	return b
}

func (b *fakeBackend) on(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[route] = h
}

func (b *fakeBackend) called(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range b.calls {
		if c == route {
			n++
		}
	}
	return n
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path

	b.mu.Lock()
	b.calls = append(b.calls, route)
	h, ok := b.handlers[route]
	b.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	h(w, r)
}

func newTestService(t *testing.T, backend *fakeBackend, overrides ...func(*types.Config)) http.Handler {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		CookieName:               "zakat_session",
		SessionMaxAgeSec:         3600,
		RegisterRedirectDelaySec: 3,
		UploadCloseDelaySec:      2,
		LogoutDelayMS:            1500,
		MaxUploadMB:              8,
		DocumentRows:             3,
	}
	for _, override := range overrides {
		override(config)
	}

	codec := securecookie.New(securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32))
	codec.SetSerializer(securecookie.JSONEncoder{})

	store := session.NewCookieStore(codec, session.CookieOptions{Name: config.CookieName})
	manager := session.NewManager(store, nil, time.Hour, logger)

	s, err := New(config, logger, api.New(srv.URL, srv.Client(), logger), manager, codec)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}

	return s.Handler()
}

func serve(h http.Handler, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func liveCookies(rec *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 && c.Value != "" {
			out = append(out, c)
		}
	}
	return out
}

func login(t *testing.T, h http.Handler) []*http.Cookie {
	t.Helper()

	rec := serve(h, postForm("/applicant/login", url.Values{"username": {"aminah"}, "password": {"Secret1!"}}), nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/applicant/dashboard" {
		t.Fatalf("expected redirect to dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	cookies := liveCookies(rec)
	if len(cookies) == 0 {
		t.Fatalf("expected a session cookie after login")
	}
	return cookies
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

func assertContains(t *testing.T, rec *httptest.ResponseRecorder, want ...string) {
	t.Helper()
	body := rec.Body.String()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Fatalf("expected body to contain %q\n%s", w, body)
		}
	}
}

func TestHealthz(t *testing.T) {
	h := newTestService(t, newFakeBackend())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response %d %q", rec.Code, rec.Body.String())
	}
}

func TestUnknownPathRedirectsToLogin(t *testing.T) {
	h := newTestService(t, newFakeBackend())

	for _, path := range []string{"/", "/applicant/nope", "/donate"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil), nil)
		assertRedirect(t, rec, "/applicant/login")
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newTestService(t, newFakeBackend())

	paths := []string{
		"/applicant",
		"/applicant/dashboard",
		"/applicant/apply",
		"/applicant/my-application",
		"/applicant/my-application/7",
		"/applicant/profile",
	}

	for _, path := range paths {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil), nil)
		assertRedirect(t, rec, "/applicant/login")

		var remembered string
		for _, c := range rec.Result().Cookies() {
			if c.Name == internal.COOKIE_REDIRECT_NAME {
				remembered = c.Value
			}
		}
		if remembered != path {
			t.Fatalf("expected %q to be remembered, got %q", path, remembered)
		}
	}
}

func TestLoginMissingFields(t *testing.T) {
	backend := newFakeBackend()
	h := newTestService(t, backend)

	rec := serve(h, postForm("/applicant/login", url.Values{"username": {"aminah"}}), nil)
	assertContains(t, rec, "Please enter both username and password.")

	if backend.called("POST /ApplcnLogin") != 0 {
		t.Fatalf("backend must not be called without both fields")
	}
}

func TestLoginRejected(t *testing.T) {
	backend := newFakeBackend()
	backend.on("POST /ApplcnLogin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid username or password"}`))
	})
	h := newTestService(t, backend)

	rec := serve(h, postForm("/applicant/login", url.Values{"username": {"aminah"}, "password": {"nope"}}), nil)
	assertContains(t, rec, "Invalid username or password")

	backend.on("POST /ApplcnLogin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	rec = serve(h, postForm("/applicant/login", url.Values{"username": {"aminah"}, "password": {"nope"}}), nil)
	assertContains(t, rec, "Invalid credentials or server error.")
}

func TestLoginThenDashboard(t *testing.T) {
	h := newTestService(t, newFakeBackend())
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/dashboard", nil), cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertContains(t, rec, "Assalamualaikum, Aminah Binti Ali!", "Apply for Aid", "My Profile", "Logout")
}

func TestLoginFollowsRememberedPath(t *testing.T) {
	h := newTestService(t, newFakeBackend())

	req := postForm("/applicant/login", url.Values{"username": {"aminah"}, "password": {"Secret1!"}})
	rec := serve(h, req, []*http.Cookie{{Name: internal.COOKIE_REDIRECT_NAME, Value: "/applicant/profile"}})
	assertRedirect(t, rec, "/applicant/profile")

	req = postForm("/applicant/login", url.Values{"username": {"aminah"}, "password": {"Secret1!"}})
	rec = serve(h, req, []*http.Cookie{{Name: internal.COOKIE_REDIRECT_NAME, Value: "//evil.example"}})
	assertRedirect(t, rec, "/applicant/dashboard")
}

func TestLogout(t *testing.T) {
	h := newTestService(t, newFakeBackend())
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/logout", nil), cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertContains(t, rec, "Logging out...", `content="1.5;url=/applicant/login"`)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "zakat_session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestRegisterDetailsRequiresVerifiedDraft(t *testing.T) {
	h := newTestService(t, newFakeBackend())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/register/details", nil), nil)
	assertRedirect(t, rec, "/applicant/register")

	rec = serve(h, postForm("/applicant/register/details", url.Values{"username": {"aminah"}}), nil)
	assertRedirect(t, rec, "/applicant/register")
}

func TestRegisterFlow(t *testing.T) {
	backend := newFakeBackend()
	backend.on("POST /register/applicant", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created"}`))
	})
	h := newTestService(t, backend)

	rec := serve(h, postForm("/applicant/register", url.Values{"fullName": {"Aminah Binti Ali"}, "nric": {"12345"}}), nil)
	assertContains(t, rec, "NRIC must be exactly 12 digits.")
	if backend.called("POST /validationR/verify-nric") != 0 {
		t.Fatalf("backend must not be called for an invalid NRIC")
	}

	rec = serve(h, postForm("/applicant/register", url.Values{"fullName": {"Aminah Binti Ali"}, "nric": {"900101141234"}}), nil)
	assertRedirect(t, rec, "/applicant/register/details")
	draft := liveCookies(rec)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/applicant/register/details", nil), draft)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertContains(t, rec, "900101141234", "Married")

	details := url.Values{
		"dateOfBirth":     {"1991-01-01"},
		"phone":           {"012-3456789"},
		"email":           {"aminah@example.com"},
		"maritalStatusId": {"1"},
		"bankName":        {"Maybank"},
		"accountNumber":   {"1234567890"},
		"username":        {"aminah"},
		"password":        {"Secret1!"},
		"confirmPassword": {"Secret1!"},
	}

	rec = serve(h, postForm("/applicant/register/details", details), draft)
	assertContains(t, rec, "Date of birth does not match your NRIC.")
	if backend.called("POST /register/applicant") != 0 {
		t.Fatalf("backend must not be called when the birth date mismatches")
	}

	details.Set("dateOfBirth", "1990-01-01")
	rec = serve(h, postForm("/applicant/register/details", details), draft)
	assertContains(t, rec, "Registration successful! You will be redirected to the login page.", `content="3;url=/applicant/login"`)
	if backend.called("POST /register/applicant") != 1 {
		t.Fatalf("expected exactly one register call")
	}
}

func TestApplicationsNotFoundIsEmpty(t *testing.T) {
	h := newTestService(t, newFakeBackend())
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/my-application", nil), cookies)
	assertContains(t, rec, "You have not submitted any applications yet.")
	if strings.Contains(rec.Body.String(), "Failed to load application status.") {
		t.Fatalf("404 must not show an error banner")
	}
}

func TestApplicationsFailureBanner(t *testing.T) {
	backend := newFakeBackend()
	backend.on("GET /my-application", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/my-application", nil), cookies)
	assertContains(t, rec, "Failed to load application status.")
}

const requestedApplication = `[{
	"applicationId": 7,
	"status": {"title": "Documents Requested", "color": "warning", "description": "Please send a recent utility bill."},
	"submissionDate": "2024-03-01T08:00:00Z",
	"lastUpdated": "2024-03-05T08:00:00Z",
	"staff_name": "Encik Rahman",
	"details": {
		"category_name": "Fakir",
		"monthly_income": "1200.5",
		"total_household_income": 1800,
		"status_detail": "**Bring** the bill <script>alert(1)</script>"
	}
}]`

func TestApplicationDetail(t *testing.T) {
	backend := newFakeBackend()
	backend.on("GET /my-application", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(requestedApplication))
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/my-application/7", nil), cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	assertContains(t, rec,
		"Encik Rahman",
		"RM 1200.50",
		"RM 1800.00",
		"<strong>Bring</strong>",
		`name="document"`,
	)
	if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
		t.Fatalf("staff note must not render raw HTML")
	}

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/applicant/my-application/99", nil), cookies)
	assertRedirect(t, rec, "/applicant/my-application")
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		_, _ = fw.Write([]byte("%PDF-1.4"))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFollowUpUpload(t *testing.T) {
	backend := newFakeBackend()
	backend.on("GET /my-application", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestedApplication))
	})
	backend.on("POST /upload-document/7", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("document"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	rec := serve(h, multipartRequest(t, "/applicant/my-application/7/documents", nil, nil), cookies)
	assertContains(t, rec, "Please select a file to upload.")
	if backend.called("POST /upload-document/7") != 0 {
		t.Fatalf("no upload expected without a file")
	}

	rec = serve(h, multipartRequest(t, "/applicant/my-application/7/documents", nil, map[string]string{"document": "bill.pdf"}), cookies)
	assertContains(t, rec, "Document uploaded successfully!", `content="2;url=/applicant/my-application"`)
	if strings.Contains(rec.Body.String(), `name="document"`) {
		t.Fatalf("upload form should close after a successful upload")
	}
}

func withUploadLimitMB(mb int64) func(*types.Config) {
	return func(c *types.Config) {
		c.MaxUploadMB = mb
	}
}

// largeMultipartRequest builds a form carrying one file of size bytes next
// to the given fields.
func largeMultipartRequest(t *testing.T, path string, fields map[string]string, field string, size int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile(field, "scan.pdf")
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte("x"), size)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFollowUpUploadOverLimit(t *testing.T) {
	backend := newFakeBackend()
	backend.on("GET /my-application", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestedApplication))
	})
	backend.on("POST /upload-document/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	h := newTestService(t, backend, withUploadLimitMB(1))
	cookies := login(t, h)

	rec := serve(h, largeMultipartRequest(t, "/applicant/my-application/7/documents", nil, "document", 2<<20), cookies)
	assertContains(t, rec, "The uploaded files are too large. The limit is 1 MB.", `name="document"`)
	if strings.Contains(rec.Body.String(), "Please select a file to upload.") {
		t.Fatalf("an oversize file must not be reported as missing")
	}

	// Without a Content-Length the body is cut off while it is read.
	req := largeMultipartRequest(t, "/applicant/my-application/7/documents", nil, "document", 2<<20)
	req.ContentLength = -1
	rec = serve(h, req, cookies)
	if strings.Contains(rec.Body.String(), "Document uploaded successfully!") {
		t.Fatalf("an oversize stream must not be accepted")
	}

	if n := backend.called("POST /upload-document/7"); n != 0 {
		t.Fatalf("expected no upload to reach the backend, got %d", n)
	}
}

func TestFollowUpUploadUnreadableForm(t *testing.T) {
	backend := newFakeBackend()
	backend.on("GET /my-application", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestedApplication))
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	req := httptest.NewRequest(http.MethodPost, "/applicant/my-application/7/documents", strings.NewReader("--x\r\nbroken"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := serve(h, req, cookies)

	assertContains(t, rec, "The upload could not be read. Please try again.")
	if strings.Contains(rec.Body.String(), "Please select a file to upload.") {
		t.Fatalf("a broken form must not be reported as a missing file")
	}
	if backend.called("POST /upload-document/7") != 0 {
		t.Fatalf("no upload expected for a broken form")
	}
}

func TestApplyOverLimit(t *testing.T) {
	backend := newFakeBackend()
	backend.on("POST /applicant/apply", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Application received"}`))
	})
	h := newTestService(t, backend, withUploadLimitMB(1))
	cookies := login(t, h)

	fields := map[string]string{
		"category_id":       "1",
		"document_types[0]": "Payslip",
		"declaration":       "true",
		"consent":           "true",
		"action":            "submit",
	}
	rec := serve(h, largeMultipartRequest(t, "/applicant/apply", fields, "document_0", 2<<20), cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected the form to be re-rendered, got %d", rec.Code)
	}
	assertContains(t, rec, "The uploaded files are too large. The limit is 1 MB. Please fill in the form again.")

	if backend.called("POST /applicant/apply") != 0 {
		t.Fatalf("an oversize application must not reach the backend")
	}
}

func TestApplyBlockedWithoutDeclaration(t *testing.T) {
	backend := newFakeBackend()
	h := newTestService(t, backend)
	cookies := login(t, h)

	fields := map[string]string{
		"category_id":       "1",
		"employment_status": "Employed",
		"document_types[0]": "Payslip",
		"action":            "submit",
	}
	rec := serve(h, multipartRequest(t, "/applicant/apply", fields, map[string]string{"document_0": "slip.pdf"}), cookies)
	assertContains(t, rec, "Please agree to the declaration and consent.")

	fields["declaration"] = "true"
	fields["consent"] = "true"
	fields["document_types[0]"] = ""
	rec = serve(h, multipartRequest(t, "/applicant/apply", fields, map[string]string{"document_0": "slip.pdf"}), cookies)
	assertContains(t, rec, "Please select a type for each uploaded document.")

	if backend.called("POST /applicant/apply") != 0 {
		t.Fatalf("no submission expected while validation fails")
	}
}

func TestApplyDependentsRerender(t *testing.T) {
	backend := newFakeBackend()
	h := newTestService(t, backend)
	cookies := login(t, h)

	fields := map[string]string{
		"dependents[0].name":         "Ali",
		"dependents[0].relationship": "Son",
		"dependents[0].age":          "7",
		"action":                     "add_dependent",
	}
	rec := serve(h, multipartRequest(t, "/applicant/apply", fields, nil), cookies)
	assertContains(t, rec, `value="Ali"`, `name="dependents[1].name"`)

	delete(fields, "action")
	fields["remove_dependent"] = "0"
	rec = serve(h, multipartRequest(t, "/applicant/apply", fields, nil), cookies)
	if strings.Contains(rec.Body.String(), `value="Ali"`) {
		t.Fatalf("expected dependent to be removed")
	}

	if backend.called("POST /applicant/apply") != 0 {
		t.Fatalf("dependent edits must not call the backend")
	}
}

func TestApplySubmit(t *testing.T) {
	backend := newFakeBackend()
	backend.on("POST /applicant/apply", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("employer_name") != "Kedai Runcit" || r.FormValue("institute_name") != "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"unexpected employment fields"}`))
			return
		}
		if got := r.MultipartForm.Value["document_types"]; len(got) != 1 || got[0] != "Payslip" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"unexpected document types"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Application received","applicationId":12}`))
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	fields := map[string]string{
		"category_id":       "1",
		"employment_status": "Employed",
		"employer_name":     "Kedai Runcit",
		"institute_name":    "Stale",
		"document_types[0]": "Payslip",
		"document_types[1]": "Utility Bill",
		"declaration":       "true",
		"consent":           "true",
		"signature":         "Aminah",
		"action":            "submit",
	}
	rec := serve(h, multipartRequest(t, "/applicant/apply", fields, map[string]string{"document_0": "slip.pdf"}), cookies)
	assertRedirect(t, rec, "/applicant/my-application?notice=Application+received")

	if backend.called("POST /applicant/apply") != 1 {
		t.Fatalf("expected exactly one submission")
	}
}

func TestProfileView(t *testing.T) {
	h := newTestService(t, newFakeBackend())
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/profile", nil), cookies)
	assertContains(t, rec, "Aminah Binti Ali", "01/01/1990", "RM 2500.00", "Edit Profile")
	if strings.Contains(rec.Body.String(), `name="password"`) {
		t.Fatalf("read-only profile must not render the edit form")
	}

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/applicant/profile?edit=1", nil), cookies)
	assertContains(t, rec, `name="password"`, "Save Changes")
}

func TestProfileLoadFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.on("GET /marital-statuses", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/profile", nil), cookies)
	assertContains(t, rec, "Could not load your profile data. Please try again later.")
}

func TestProfileUpdate(t *testing.T) {
	backend := newFakeBackend()
	h := newTestService(t, backend)
	cookies := login(t, h)

	rec := serve(h, postForm("/applicant/profile", url.Values{"password": {"weak"}}), cookies)
	assertContains(t, rec, "Password does not meet requirements.")

	rec = serve(h, postForm("/applicant/profile", url.Values{"account_number": {"12ab"}}), cookies)
	assertContains(t, rec, "Bank account number must be between 7 and 16 digits.")

	if backend.called("PUT /ApplcnProfile") != 0 {
		t.Fatalf("no update expected while validation fails")
	}

	backend.on("PUT /ApplcnProfile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"Email already in use"}`))
	})
	rec = serve(h, postForm("/applicant/profile", url.Values{"email": {"taken@example.com"}}), cookies)
	assertContains(t, rec, "Update failed: Email already in use")

	backend.on("PUT /ApplcnProfile", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	rec = serve(h, postForm("/applicant/profile", url.Values{"email": {"new@example.com"}, "salary": {"3000"}}), cookies)
	assertRedirect(t, rec, "/applicant/profile?notice=Profile+updated+successfully%21")
}

func TestProfileUpdateSendsIdentityBack(t *testing.T) {
	backend := newFakeBackend()
	var sent string
	backend.on("PUT /ApplcnProfile", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		sent = string(body)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/profile?edit=1", nil), cookies)
	assertContains(t, rec,
		`name="full_name" value="Aminah Binti Ali"`,
		`name="nric" value="900101141234"`,
		`name="date_of_birth" value="1990-01-01"`,
	)

	form := url.Values{
		"full_name":     {"Aminah Binti Ali"},
		"nric":          {"900101141234"},
		"date_of_birth": {"1990-01-01"},
		"email":         {"new@example.com"},
	}
	rec = serve(h, postForm("/applicant/profile", form), cookies)
	assertRedirect(t, rec, "/applicant/profile?notice=Profile+updated+successfully%21")

	for _, want := range []string{`"full_name":"Aminah Binti Ali"`, `"nric":"900101141234"`, `"date_of_birth":"1990-01-01"`} {
		if !strings.Contains(sent, want) {
			t.Fatalf("expected update body to contain %s, got %s", want, sent)
		}
	}
	if strings.Contains(sent, `"password"`) {
		t.Fatalf("blank password must not be sent, got %s", sent)
	}
}

func TestBackendRejectsCredential(t *testing.T) {
	backend := newFakeBackend()
	backend.on("GET /my-application", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	h := newTestService(t, backend)
	cookies := login(t, h)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/applicant/my-application", nil), cookies)
	assertRedirect(t, rec, "/applicant/login")
}
