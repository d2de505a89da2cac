package roles

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

type recordedEnqueuer struct {
	calls int
}

func (e *recordedEnqueuer) EnqueueRolesRefresh(ctx context.Context) (*asynq.TaskInfo, error) {
	e.calls++
	return &asynq.TaskInfo{}, nil
}

func newTestHandler(t *testing.T) (*Handler, *recordedEnqueuer) {
	t.Helper()
	svc := newTestService(t, newMockRepository())
	enq := &recordedEnqueuer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, svc, authz.Middleware{}, enq), enq
}

func matrixRequest(method, role, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/matrix/"+role, reader)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("role", role)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSaveNotifiesWorkerQueue(t *testing.T) {
	h, enq := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.save(rec, matrixRequest(http.MethodPut, authz.RoleVendedor, `{"capabilities":["view_vendas"],"scope":"STORE"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, enq.calls, "matrix edit must queue a refresh for peer nodes")
}

func TestRemoveNotifiesWorkerQueue(t *testing.T) {
	h, enq := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.save(rec, matrixRequest(http.MethodPut, authz.RoleVendedor, `{"capabilities":["view_vendas"]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.remove(rec, matrixRequest(http.MethodDelete, authz.RoleVendedor, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, enq.calls)
}

func TestRejectedEditDoesNotNotify(t *testing.T) {
	h, enq := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.save(rec, matrixRequest(http.MethodPut, authz.RoleAdministrator, `{"capabilities":["view_vendas"]}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, enq.calls, "failed edits must not queue a refresh")
}
