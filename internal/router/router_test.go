package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"denti-directory/internal/router"

	"golang.org/x/crypto/bcrypt"
)

func newServer(t *testing.T, devAuth bool) *httptest.Server {
	t.Helper()

	h, closeSessions, err := router.NewRouter(router.Options{
		DevAuth:    devAuth,
		JWTSecret:  []byte("router-test-secret"),
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	ts := httptest.NewServer(h)
	t.Cleanup(func() {
		ts.Close()
		closeSessions()
	})
	return ts
}

func TestHTTP_EndToEnd_ClinicOwnership(t *testing.T) {
	ts := newServer(t, true)

	ownerID := "owner-1"
	otherID := "other-1"

	// 1) Owner registra clínica
	clinicID := createClinic(t, ts.URL, ownerID, map[string]any{
		"name":            "Sonrisas",
		"address":         "Av. Reforma 1",
		"phone":           "555-123-4567",
		"servicesOffered": "Limpieza, Ortodoncia",
		"lat":             19.43,
		"lng":             -99.13,
	})

	// 2) Cualquiera la ve en el listado público
	{
		st, body := doReq(t, ts.URL, "GET", "/api/clinics", "", nil)
		if st != http.StatusOK || !strings.Contains(string(body), clinicID) {
			t.Fatalf("expected clinic in public list, got %d body=%s", st, string(body))
		}
	}

	// 3) Otro usuario NO puede editarla ni borrarla
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/api/clinics/"+clinicID, otherID, map[string]any{"name": "Hack"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 patch by other user, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/clinics/"+clinicID, otherID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete by other user, got %d", st)
		}
	}

	// 4) Owner edita
	{
		st, body := doReq(t, ts.URL, "PATCH", "/api/clinics/"+clinicID, ownerID, map[string]any{"name": "Sonrisas Centro"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patch by owner, got %d body=%s", st, string(body))
		}
	}

	// 5) Borrar dos veces => 204 ambas
	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "DELETE", "/api/clinics/"+clinicID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete #%d, got %d body=%s", i+1, st, string(body))
		}
	}

	// 6) Ya no existe
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/clinics/"+clinicID, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_CreateClinic_Validation(t *testing.T) {
	ts := newServer(t, true)

	st, _ := doReq(t, ts.URL, "POST", "/api/clinics", "", map[string]any{"name": "X"})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}

	st, body := doReq(t, ts.URL, "POST", "/api/clinics", "owner-1", map[string]any{
		"name":    "Sonrisas",
		"address": "Av. Reforma 1",
		"phone":   "abc",
	})
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", st, string(body))
	}

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Errors["phone"] == "" || resp.Errors["location"] == "" {
		t.Fatalf("expected phone and location errors, got %v", resp.Errors)
	}
}

func TestHTTP_BearerSession_SignOutRevokes(t *testing.T) {
	ts := newServer(t, false)

	st, body := doJSON(t, ts.URL, "POST", "/api/auth/signup", nil, map[string]any{
		"email":           "ana@example.com",
		"password":        "abc123",
		"confirmPassword": "abc123",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 signup, got %d body=%s", st, string(body))
	}

	var sess struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &sess)
	if sess.Token == "" {
		t.Fatalf("signup: missing token body=%s", string(body))
	}
	bearer := map[string]string{"Authorization": "Bearer " + sess.Token}

	// El header de debug no sirve fuera de modo dev.
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/auth/me", "intruder", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 with debug header, got %d", st)
		}
	}
	{
		st, body := doJSON(t, ts.URL, "POST", "/api/posts", bearer, map[string]any{
			"title":   "Cuidado dental",
			"content": "Cepíllate tres veces al día.",
			"excerpt": "Consejos",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create post, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doJSON(t, ts.URL, "POST", "/api/auth/signout", bearer, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 signout, got %d", st)
		}
	}
	{
		st, _ := doJSON(t, ts.URL, "GET", "/api/auth/me", bearer, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after signout, got %d", st)
		}
	}
}

func TestHTTP_WebGuard_RedirectsToLogin(t *testing.T) {
	ts := newServer(t, true)

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	res, err := client.Get(ts.URL + "/register-clinic")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.StatusCode)
	}
	if loc := res.Header.Get("Location"); loc != "/login?from=%2Fregister-clinic" {
		t.Fatalf("unexpected redirect %q", loc)
	}
}

func TestHTTP_HealthMetricsAndNotFound(t *testing.T) {
	ts := newServer(t, true)

	if st, body := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected health ok, got %d body=%s", st, string(body))
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/nope", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown api route, got %d", st)
	}
	if st, body := doReq(t, ts.URL, "GET", "/nope", "", nil); st != http.StatusNotFound || !strings.Contains(string(body), "404") {
		t.Fatalf("expected 404 page, got %d", st)
	}

	st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "denti_http_requests_total") {
		t.Fatalf("expected request counter in metrics, got %d", st)
	}
}

func createClinic(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/clinics", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create clinic, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create clinic: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, userID string, payload any) (int, []byte) {
	t.Helper()

	var headers map[string]string
	if userID != "" {
		headers = map[string]string{"X-Debug-User-ID": userID}
	}
	return doJSON(t, baseURL, method, path, headers, payload)
}

func doJSON(t *testing.T, baseURL, method, path string, headers map[string]string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}
