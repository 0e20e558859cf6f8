package routerhelper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestRouteGroup(t *testing.T) {
	router := httprouter.New()
	api := NewRouteGroup(router, "/api")

	ok := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	}
	api.GET("/state", ok)
	api.Group("/position").POST("/error", ok)
	api.DELETE("/waypoints", ok)

	testCases := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"get", http.MethodGet, "/api/state", http.StatusNoContent},
		{"nested group", http.MethodPost, "/api/position/error", http.StatusNoContent},
		{"delete", http.MethodDelete, "/api/waypoints", http.StatusNoContent},
		{"missing prefix", http.MethodGet, "/state", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/api/state", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
