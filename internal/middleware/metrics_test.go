package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"health-tracker/internal/metrics"
)

func TestWrapHandlerRecordsStatusAndMethod(t *testing.T) {
	handler := WrapHandler("test_teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // superfluous, the first status wins
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_teapot", http.MethodPost, "418"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/teapot", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", w.Code)
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_teapot", http.MethodPost, "418"))
	if after != before+1 {
		t.Errorf("Expected counter to increase by 1, went from %v to %v", before, after)
	}
}

func TestInstrumentDefaultsToOKOnBodyWrite(t *testing.T) {
	handler := WrapHandler("test_body", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_body", http.MethodGet, "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("test_body", http.MethodGet, "200"))

	if after != before+1 {
		t.Errorf("Expected 200 to be recorded, went from %v to %v", before, after)
	}
}

func TestInstrumentFallsBackToMuxPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /things/{id}", Instrument("", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	labels := []string{"GET /things/{id}", http.MethodGet, "204"}
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(labels...))

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/7", nil))

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(labels...))
	if after != before+1 {
		t.Errorf("Expected request to be labelled with its pattern, went from %v to %v", before, after)
	}
}
