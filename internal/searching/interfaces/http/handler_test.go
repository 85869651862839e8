package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/productsearch/internal/searching/application"
)

type fakeReloader struct {
	calls int
	err   error
}

func (f *fakeReloader) LoadCache(context.Context) error {
	f.calls++
	return f.err
}

type fakeQueue struct {
	pushed [][]int64
	err    error
}

func (f *fakeQueue) Push(_ context.Context, ids []int64) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, ids)
	return nil
}

func newTestRouter(reloader CategoryReloader, queue ProductEnqueuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewSearchHandler(application.NewSearchService(nil, nil, nil), reloader, queue)
	handler.RegisterRoutes(router)
	return router
}

func TestReindexPushesToWorkQueue(t *testing.T) {
	queue := &fakeQueue{}
	router := newTestRouter(&fakeReloader{}, queue)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex/42", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [][]int64{{42}}, queue.pushed)
}

func TestReindexRejectsBadProductID(t *testing.T) {
	queue := &fakeQueue{}
	router := newTestRouter(&fakeReloader{}, queue)

	for _, raw := range []string{"abc", "0", "-5"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex/"+raw, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
	}
	assert.Empty(t, queue.pushed)
}

func TestReindexReportsQueueFailure(t *testing.T) {
	queue := &fakeQueue{err: errors.New("redis down")}
	router := newTestRouter(&fakeReloader{}, queue)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReloadCategories(t *testing.T) {
	reloader := &fakeReloader{}
	router := newTestRouter(reloader, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/categories/reload", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, reloader.calls)
}
