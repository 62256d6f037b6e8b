package postersync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/store"
)

type fakeRunStore struct {
	finished *store.SyncRunResult
}

func (f *fakeRunStore) CreateSyncRun(ctx context.Context, kind, triggeredBy string) (*models.SyncRun, error) {
	return &models.SyncRun{ID: 1, Kind: kind, TriggeredBy: triggeredBy}, nil
}

func (f *fakeRunStore) FinishSyncRun(ctx context.Context, runId int, result store.SyncRunResult) error {
	f.finished = &result
	return nil
}

func (f *fakeRunStore) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	return nil, nil
}

// A started run proceeds to completion even when the client goes away.
func TestRunSurvivesRequestCancellation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rs := &fakeRunStore{}
	h := NewHandler(nil, rs, nil, config.GetLogger())

	reqCtx, cancel := context.WithCancel(context.Background())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/sync/full", nil).WithContext(reqCtx)

	h.runGuarded(c, models.SyncKindFull, func(runCtx context.Context) (*Summary, error) {
		// Drop the request mid-run, the way a disconnecting client or a
		// proxy timeout would.
		cancel()
		if err := runCtx.Err(); err != nil {
			t.Fatalf("run context canceled with the request: %v", err)
		}
		return &Summary{Errors: []string{}}, nil
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if rs.finished == nil {
		t.Fatal("run was never finished")
	}
	if rs.finished.Status != models.SyncRunStatusSuccess {
		t.Fatalf("run status = %q, want %q", rs.finished.Status, models.SyncRunStatusSuccess)
	}
}
