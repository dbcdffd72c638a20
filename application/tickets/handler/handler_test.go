package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	custrepo "repairshop/application/customers/repository"
	"repairshop/application/technicians"
	"repairshop/application/tickets/repository"
	"repairshop/application/tickets/service"
	"repairshop/common"
	"repairshop/internal/auth"
	"repairshop/internal/database/databasetest"
	"repairshop/internal/form"
	"repairshop/internal/telemetry"
	"repairshop/middleware"
)

type envelope struct {
	Data    map[string]any `json:"data"`
	Message string         `json:"message"`
}

type fixture struct {
	router   *gin.Engine
	customer common.Customer
	inactive common.Customer
	ticket   common.Ticket
}

func setup(t *testing.T, viewer auth.Viewer) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := databasetest.NewSQLite(t)
	f := &fixture{
		customer: common.Customer{FirstName: "John", LastName: "Doe", Email: "john@example.com", Phone: "555-123-4567", Address1: "1 Main", City: "Anytown", State: "CA", Zip: "12345", Active: true},
		inactive: common.Customer{FirstName: "Ann", LastName: "Adams", Email: "ann@example.com", Phone: "555-000-1111", Address1: "3 Elm", City: "Austin", State: "TX", Zip: "73301"},
	}
	db.Create(&f.customer)
	db.Create(&f.inactive)
	f.ticket = common.Ticket{CustomerID: f.customer.ID, Title: "Broken screen", Description: "cracked", Tech: "tech1@example.com"}
	db.Create(&f.ticket)

	dir, _ := technicians.NewDirectory([]technicians.Technician{{ID: "tech1@example.com"}})
	log := zap.NewNop()
	svc := service.NewService(repository.NewRepository(db), custrepo.NewRepository(db), dir, auth.NewContextProvider(), form.NewSchema(), log)

	r := gin.New()
	r.Use(middleware.RequestInit())
	r.Use(middleware.ResponseInit(log, telemetry.NewReporter(log)))
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithViewer(c.Request.Context(), viewer))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group(""))
	f.router = r
	return f
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode %s: %v", w.Body.String(), err)
	}
	return env
}

func id(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func TestTicketForm(t *testing.T) {
	tech := auth.Viewer{Email: "tech1@example.com"}

	tests := []struct {
		name    string
		query   string
		code    int
		kind    common.ViewKind
		message string
	}{
		{name: "no ids", query: "", code: http.StatusBadRequest, kind: common.ViewBadRequest, message: "Ticket ID or Customer ID required!"},
		{name: "missing ticket", query: "?ticketId=99", code: http.StatusNotFound, kind: common.ViewNotFound, message: "Ticket ID #99 not found!"},
		{name: "missing customer", query: "?customerId=99", code: http.StatusNotFound, kind: common.ViewNotFound, message: "Customer ID #99 not found!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tech)
			w := f.do(http.MethodGet, "/tickets/form"+tt.query, nil)
			if w.Code != tt.code {
				t.Fatalf("Expected %d, got %d", tt.code, w.Code)
			}
			env := decode(t, w)
			if env.Data["kind"] != string(tt.kind) || env.Data["message"] != tt.message {
				t.Errorf("Expected %s %q, got %v %v", tt.kind, tt.message, env.Data["kind"], env.Data["message"])
			}
		})
	}

	t.Run("inactive customer", func(t *testing.T) {
		f := setup(t, tech)
		w := f.do(http.MethodGet, "/tickets/form?customerId="+id(f.inactive.ID), nil)
		if w.Code != http.StatusPreconditionFailed {
			t.Fatalf("Expected 412, got %d", w.Code)
		}
	})

	t.Run("assigned tech edits", func(t *testing.T) {
		f := setup(t, tech)
		w := f.do(http.MethodGet, "/tickets/form?ticketId="+id(f.ticket.ID), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		fv := decode(t, w).Data["form"].(map[string]any)
		if fv["access"].(map[string]any)["editability"] != "owner" {
			t.Errorf("Expected owner, got %v", fv["access"])
		}
		if fv["displayId"] != id(f.ticket.ID) {
			t.Errorf("Expected display id %s, got %v", id(f.ticket.ID), fv["displayId"])
		}
	})
}

func TestSubmit(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		f := setup(t, auth.Viewer{Email: "tech1@example.com"})
		w := f.do(http.MethodPost, "/tickets/form", map[string]any{
			"customerId":  f.customer.ID,
			"title":       "No sound",
			"description": "Speakers silent",
			"tech":        common.NewTicketTech,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("create with the new-ticket label as id", func(t *testing.T) {
		f := setup(t, auth.Viewer{Email: "tech1@example.com"})
		w := f.do(http.MethodPost, "/tickets/form", map[string]any{
			"id":          common.NewTicketLabel,
			"customerId":  f.customer.ID,
			"title":       "No sound",
			"description": "Speakers silent",
			"tech":        common.NewTicketTech,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if got := decode(t, w).Data["id"]; got == float64(f.ticket.ID) || got == float64(0) {
			t.Errorf("Expected a freshly assigned id, got %v", got)
		}
	})

	t.Run("forbidden for another tech", func(t *testing.T) {
		f := setup(t, auth.Viewer{Email: "tech9@example.com"})
		w := f.do(http.MethodPost, "/tickets/form", map[string]any{
			"id":          f.ticket.ID,
			"customerId":  f.customer.ID,
			"title":       "Mine now",
			"description": "cracked",
			"tech":        "tech1@example.com",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", w.Code)
		}
	})

	t.Run("inactive customer", func(t *testing.T) {
		f := setup(t, auth.Viewer{Email: "tech1@example.com"})
		w := f.do(http.MethodPost, "/tickets/form", map[string]any{
			"customerId":  f.inactive.ID,
			"title":       "No sound",
			"description": "Speakers silent",
			"tech":        common.NewTicketTech,
		})
		if w.Code != http.StatusPreconditionFailed {
			t.Errorf("Expected 412, got %d", w.Code)
		}
	})
}

func TestSearch(t *testing.T) {
	f := setup(t, auth.Viewer{Email: "tech1@example.com"})

	w := f.do(http.MethodGet, "/tickets?incomplete=true&search=screen", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Total-Count"); got != "1" {
		t.Errorf("Expected X-Total-Count 1, got %q", got)
	}
	var rows []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("Expected JSON array, got %s", w.Body.String())
	}
	if len(rows) != 1 || rows[0]["lastName"] != "Doe" {
		t.Errorf("Expected one row for Doe, got %v", rows)
	}

	w = f.do(http.MethodGet, "/tickets?incomplete=maybe", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}
