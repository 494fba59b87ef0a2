package httputil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fenix011/student-management-API-c6e/internal/httputil"

	"github.com/stretchr/testify/assert"
)

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()

	httputil.RespondWithError(w, http.StatusNotFound, "Student not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "Student not found", "status": 404}`, w.Body.String())
}

func TestRespondWithJSON_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()

	httputil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "failed to encode response", "status": 500}`, w.Body.String())
}
