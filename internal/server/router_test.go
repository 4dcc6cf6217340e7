package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type routesHandler struct {
	routes []string
}

func (h *routesHandler) Routes() []string { return h.routes }

func (h *routesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(r.Method + " handled"))
}

func TestBasicRouter(t *testing.T) {
	t.Run("Same Path Different Methods", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle("get", "/{$}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("list")) }))
		r.Handle("POST", "/{$}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("submit")) }))

		for method, want := range map[string]string{http.MethodGet: "list", http.MethodPost: "submit"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(method, "/", nil))
			if rec.Body.String() != want {
				t.Errorf("%s: expected %q, got %q", method, want, rec.Body.String())
			}
		}
	})

	t.Run("Wrong Method Is 405", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/health", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Unknown Path Is 404", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Handler Registers All Routes", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(&routesHandler{routes: []string{"GET /a", "POST /b"}})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a", nil))
		if rec.Body.String() != "GET handled" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/b", nil))
		if rec.Body.String() != "POST handled" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("unexpected order %s", got)
		}
	})
}
