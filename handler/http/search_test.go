package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fusego/src/retrieval"
)

type fakeVector struct {
	results []retrieval.Result
	err     error
}

func (f *fakeVector) Search(context.Context, string, int, map[string]interface{}) ([]retrieval.Result, error) {
	return f.results, f.err
}

type fakeKeyword struct {
	results []retrieval.Result
}

func (f *fakeKeyword) Search(string, int) ([]retrieval.Result, error) {
	return f.results, nil
}

func newTestRouter(vector retrieval.VectorSearcher, keyword retrieval.KeywordSearcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(vector, keyword, 0.5, 60).RegisterRoutes(r)
	return r
}

func doSearch(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchReturnsFusedResults(t *testing.T) {
	vector := &fakeVector{results: []retrieval.Result{{ID: "a", Score: 0.9}, {ID: "b", Score: 0.8}}}
	keyword := &fakeKeyword{results: []retrieval.Result{{ID: "b", Score: 2.0}, {ID: "c", Score: 1.0}}}
	r := newTestRouter(vector, keyword)

	w := doSearch(t, r, `{"query":"cats","top_k":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cats", resp.Query)
	assert.Equal(t, 0.5, resp.Alpha)
	require.Len(t, resp.Results, 2)
	// b appears in both lists, so it fuses highest.
	assert.Equal(t, "b", resp.Results[0].ID)
}

func TestSearchAlphaOverride(t *testing.T) {
	r := newTestRouter(&fakeVector{}, &fakeKeyword{})

	w := doSearch(t, r, `{"query":"cats","alpha":1.0}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Alpha)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}

func TestSearchRejectsMissingQuery(t *testing.T) {
	r := newTestRouter(&fakeVector{}, &fakeKeyword{})

	w := doSearch(t, r, `{"top_k":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestSearchRejectsInvalidAlpha(t *testing.T) {
	r := newTestRouter(&fakeVector{}, &fakeKeyword{})

	w := doSearch(t, r, `{"query":"cats","alpha":1.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPropagatesBackendFailure(t *testing.T) {
	r := newTestRouter(&fakeVector{err: errors.New("index offline")}, &fakeKeyword{})

	w := doSearch(t, r, `{"query":"cats"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(&fakeVector{}, &fakeKeyword{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
