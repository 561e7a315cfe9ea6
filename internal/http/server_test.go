package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewExpenseService(storage.NewMemoryStore(), applog.Discard())
	return NewServer(":0", svc, Options{Logger: applog.Discard()})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorBody](t, rr).Error
}

// failingService fails every call with a store error.
type failingService struct{}

var errLocked = &core.StoreError{Op: "list expenses", Err: errors.New("database is locked")}

func (failingService) Create(context.Context, core.Fields) (core.Expense, error) {
	return core.Expense{}, errLocked
}
func (failingService) Update(context.Context, int64, core.Fields) (core.Expense, error) {
	return core.Expense{}, errLocked
}
func (failingService) Delete(context.Context, int64) (int64, error) { return 0, errLocked }
func (failingService) List(context.Context) ([]core.Expense, error) { return nil, errLocked }
func (failingService) Summary(context.Context) (core.Breakdown, error) { return core.Breakdown{}, errLocked }
func (failingService) Export(context.Context) ([]byte, error) { return nil, errLocked }
func (failingService) Ready(context.Context) error { return errLocked }

const coffeeJSON = `{"description":"Coffee","amount":3.5,"category":"Food","date":"2024-03-01"}`

func TestCoffeeLifecycle(t *testing.T) {
	h := newTestServer(t).Handler

	rr := do(t, h, http.MethodPost, "/api/expenses", coffeeJSON)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	created := decode[core.Expense](t, rr)
	want := core.Expense{ID: 1, Description: "Coffee", Amount: 3.5, Category: "Food", Date: "2024-03-01"}
	if created != want {
		t.Fatalf("create = %+v, want %+v", created, want)
	}

	rr = do(t, h, http.MethodGet, "/api/expenses", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list status=%d", rr.Code)
	}
	if got := decode[[]core.Expense](t, rr); len(got) != 1 || got[0] != want {
		t.Fatalf("list = %+v, want [%+v]", got, want)
	}

	rr = do(t, h, http.MethodPut, "/api/expenses/1",
		`{"description":"Coffee","amount":4.0,"category":"Food","date":"2024-03-01"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := decode[core.Expense](t, rr); got.ID != 1 || got.Amount != 4 {
		t.Fatalf("update = %+v", got)
	}

	rr = do(t, h, http.MethodDelete, "/api/expenses/1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if got := decode[map[string]int64](t, rr); got["id"] != 1 {
		t.Fatalf("delete body = %v", got)
	}

	rr = do(t, h, http.MethodGet, "/api/expenses", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("list after delete = %s, want []", rr.Body.String())
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing description", `{"amount":3.5,"category":"Food","date":"2024-03-01"}`, msgMissingFields},
		{"zero amount", `{"description":"x","amount":0,"category":"Food","date":"2024-03-01"}`, msgMissingFields},
		{"missing date", `{"description":"x","amount":1,"category":"Food"}`, msgMissingFields},
		{"empty body", "", msgMissingFields},
		{"malformed json", `{"description":`, msgInvalidInput},
		{"amount as text", `{"description":"x","amount":"3.5","category":"Food","date":"2024-03-01"}`, msgInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t).Handler
			rr := do(t, h, http.MethodPost, "/api/expenses", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400", rr.Code)
			}
			if got := errorMessage(t, rr); got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}

			rr = do(t, h, http.MethodGet, "/api/expenses", "")
			if strings.TrimSpace(rr.Body.String()) != "[]" {
				t.Errorf("rejected create persisted something: %s", rr.Body.String())
			}
		})
	}
}

func TestUpdateExpense(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"unknown id", "/api/expenses/42", coffeeJSON, http.StatusNotFound, msgNotFound},
		{"non-integer id", "/api/expenses/abc", coffeeJSON, http.StatusNotFound, msgNotFound},
		{"missing fields before lookup", "/api/expenses/42", `{"description":"x"}`, http.StatusBadRequest, msgMissingFields},
		{"malformed body", "/api/expenses/1", `nope`, http.StatusBadRequest, msgInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t).Handler
			do(t, h, http.MethodPost, "/api/expenses", coffeeJSON)

			rr := do(t, h, http.MethodPut, tt.path, tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status=%d, want %d", rr.Code, tt.wantStatus)
			}
			if got := errorMessage(t, rr); got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}

			list := decode[[]core.Expense](t, do(t, h, http.MethodGet, "/api/expenses", ""))
			if len(list) != 1 || list[0].Amount != 3.5 {
				t.Errorf("failed update changed the store: %+v", list)
			}
		})
	}
}

func TestDeleteTwice(t *testing.T) {
	h := newTestServer(t).Handler
	do(t, h, http.MethodPost, "/api/expenses", coffeeJSON)

	if rr := do(t, h, http.MethodDelete, "/api/expenses/1", ""); rr.Code != http.StatusOK {
		t.Fatalf("first delete status=%d", rr.Code)
	}
	rr := do(t, h, http.MethodDelete, "/api/expenses/1", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d, want 404", rr.Code)
	}
	if got := errorMessage(t, rr); got != msgNotFound {
		t.Errorf("error = %q", got)
	}
	if rr := do(t, h, http.MethodDelete, "/api/expenses/x", ""); rr.Code != http.StatusNotFound {
		t.Errorf("non-integer delete status=%d, want 404", rr.Code)
	}
}

func TestListOrderAndIDs(t *testing.T) {
	h := newTestServer(t).Handler
	for _, date := range []string{"2024-01-05", "2024-01-10", "2024-01-01"} {
		do(t, h, http.MethodPost, "/api/expenses",
			`{"description":"x","amount":1,"category":"Food","date":"`+date+`"}`)
	}

	list := decode[[]core.Expense](t, do(t, h, http.MethodGet, "/api/expenses", ""))
	var dates []string
	for _, e := range list {
		dates = append(dates, e.Date)
	}
	if got := strings.Join(dates, ","); got != "2024-01-10,2024-01-05,2024-01-01" {
		t.Errorf("display order = %s", got)
	}
	if list[0].ID != 2 || list[1].ID != 1 || list[2].ID != 3 {
		t.Errorf("ids = %d,%d,%d, want 2,1,3", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestExportCSV(t *testing.T) {
	h := newTestServer(t).Handler
	do(t, h, http.MethodPost, "/api/expenses",
		`{"description":"He said \"hi\"","amount":3.5,"category":"Food","date":"2024-03-02"}`)
	do(t, h, http.MethodPost, "/api/expenses",
		`{"description":"Rent","amount":900,"category":"Rent","date":"2024-03-01"}`)

	rr := do(t, h, http.MethodGet, "/api/expenses/csv", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rr.Header().Get("Content-Disposition"); got != "attachment; filename=expenses.csv" {
		t.Errorf("Content-Disposition = %q", got)
	}
	want := "id,description,amount,category,date\n" +
		`2,"Rent",900,"Rent",2024-03-01` + "\n" +
		`1,"He said ""hi""",3.5,"Food",2024-03-02`
	if got := rr.Body.String(); got != want {
		t.Errorf("csv =\n%s\nwant\n%s", got, want)
	}
}

func TestSummary(t *testing.T) {
	h := newTestServer(t).Handler
	do(t, h, http.MethodPost, "/api/expenses", coffeeJSON)
	do(t, h, http.MethodPost, "/api/expenses", `{"description":"Bus","amount":2,"category":"Transport","date":"2024-03-02"}`)
	do(t, h, http.MethodPost, "/api/expenses", `{"description":"Lunch","amount":1.5,"category":"Food","date":"2024-03-03"}`)

	rr := do(t, h, http.MethodGet, "/api/expenses/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	b := decode[core.Breakdown](t, rr)
	if b.Total != 7 {
		t.Errorf("total = %v, want 7", b.Total)
	}
	amounts := map[string]float64{}
	for _, c := range b.Categories {
		amounts[c.Category] = c.Amount
	}
	if amounts["Food"] != 5 || amounts["Transport"] != 2 || len(amounts) != 2 {
		t.Errorf("categories = %+v", b.Categories)
	}
}

func TestStoreFailuresReturn500(t *testing.T) {
	h := NewServer(":0", failingService{}, Options{}).Handler

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/expenses", ""},
		{http.MethodPost, "/api/expenses", coffeeJSON},
		{http.MethodPut, "/api/expenses/1", coffeeJSON},
		{http.MethodDelete, "/api/expenses/1", ""},
		{http.MethodGet, "/api/expenses/csv", ""},
		{http.MethodGet, "/api/expenses/summary", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := do(t, h, tt.method, tt.path, tt.body)
			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("status=%d, want 500", rr.Code)
			}
			if got := errorMessage(t, rr); got != errLocked.Error() {
				t.Errorf("error = %q, want %q", got, errLocked.Error())
			}
		})
	}
}

func TestHealthAndReady(t *testing.T) {
	h := newTestServer(t).Handler
	if rr := do(t, h, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rr.Code, rr.Body.String())
	}
	if rr := do(t, h, http.MethodGet, "/readyz", ""); rr.Code != http.StatusOK || rr.Body.String() != "ready" {
		t.Errorf("readyz = %d %q", rr.Code, rr.Body.String())
	}

	failing := NewServer(":0", failingService{}, Options{}).Handler
	if rr := do(t, failing, http.MethodGet, "/readyz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz with broken store = %d, want 503", rr.Code)
	}
}

func TestIndexServesClient(t *testing.T) {
	h := newTestServer(t).Handler
	rr := do(t, h, http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Personal Finance Tracker") {
		t.Errorf("index body missing heading")
	}
	if rr.Header().Get("Content-Security-Policy") == "" {
		t.Errorf("missing security headers")
	}
	if rr := do(t, h, http.MethodPost, "/", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST / status=%d, want 405", rr.Code)
	}
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	h := newTestServer(t).Handler
	rr := do(t, h, http.MethodGet, "/api/unknown", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	svc := services.NewExpenseService(storage.NewMemoryStore(), applog.Discard())
	srv := NewServer(":0", svc, Options{RateLimitPerMinute: 1})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	h := srv.Handler

	if rr := do(t, h, http.MethodPost, "/api/expenses", coffeeJSON); rr.Code != http.StatusCreated {
		t.Fatalf("first create status=%d", rr.Code)
	}
	rr := do(t, h, http.MethodPost, "/api/expenses", coffeeJSON)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second create status=%d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if got := errorMessage(t, rr); got != "Rate limit exceeded" {
		t.Errorf("error = %q", got)
	}
	if rr := do(t, h, http.MethodGet, "/api/expenses", ""); rr.Code != http.StatusOK {
		t.Errorf("reads must not be limited, status=%d", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t).Handler
	req := httptest.NewRequest(http.MethodOptions, "/api/expenses/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status=%d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{core.ErrMissingFields, http.StatusBadRequest},
		{core.ErrInvalidInput, http.StatusBadRequest},
		{core.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got, _ := statusFor(tt.err); got != tt.wantStatus {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.wantStatus)
		}
	}
}
