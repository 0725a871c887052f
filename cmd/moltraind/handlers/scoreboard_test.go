package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/molstud/moltrain/cmd/moltraind/handlers"
	httptestutil "github.com/molstud/moltrain/internal/testutils/http"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain"
	dbmock "github.com/molstud/moltrain/pkg/domain/storage/mock"
	"github.com/molstud/moltrain/pkg/utils/cmp"
)

func TestGetScoreboardHandler(t *testing.T) {

	t.Run("it lists the fittings competing on a dataset", func(t *testing.T) {
		mock := dbmock.New()
		mock.ScoreboardMock.Impl.Filtered = func(ctx context.Context, datasetId string, labels []string) ([]domain.ScoreboardEntry, error) {
			return []domain.ScoreboardEntry{
				{
					FittingId: "fit-1", UserId: "user-alice", Username: "alice",
					ModelName: "my net", DatasetId: datasetId,
					Labels: labels, Epochs: 10, Accuracy: 0.92,
				},
			}, nil
		}

		testee := handlers.GetScoreboardHandler(mock.Scoreboard())

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/scoreboard?datasetId=ds-1&label=homo&label=lumo")

		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code: want %d, got %d", http.StatusOK, respRec.Result().StatusCode)
		}

		resp := []studio.ScoreboardEntry{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if len(resp) != 1 {
			t.Fatalf("want 1 entry, got %d", len(resp))
		}
		got := resp[0]
		if got.FittingId != "fit-1" || got.Username != "alice" || got.ModelName != "my net" ||
			got.Accuracy != 0.92 {
			t.Errorf("unexpected entry: %+v", got)
		}

		if mock.ScoreboardMock.Calls.Filtered.Times() != 1 {
			t.Fatalf("Filtered should be called once")
		}
		call := mock.ScoreboardMock.Calls.Filtered[0]
		if call.DatasetId != "ds-1" || !cmp.SliceEq(call.Labels, []string{"homo", "lumo"}) {
			t.Errorf("unexpected Filtered call: %+v", call)
		}
	})

	t.Run("it rejects a request without datasetId", func(t *testing.T) {
		mock := dbmock.New()
		testee := handlers.GetScoreboardHandler(mock.Scoreboard())

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/scoreboard?label=homo")

		expectHTTPError(t, testee(c), http.StatusBadRequest)
		if mock.ScoreboardMock.Calls.Filtered.Times() != 0 {
			t.Errorf("storage should not be touched")
		}
	})
}

func TestDeleteScoreboardFittingHandler(t *testing.T) {

	t.Run("it removes one fitting", func(t *testing.T) {
		mock := dbmock.New()
		mock.ScoreboardMock.Impl.Delete = func(ctx context.Context, fittingId string) error {
			return nil
		}

		testee := handlers.DeleteScoreboardFittingHandler(mock.Scoreboard(), "fittingId")

		e := echo.New()
		c, respRec := httptestutil.Delete(e, "/api/scoreboard/fit-1")
		c.SetParamNames("fittingId")
		c.SetParamValues("fit-1")

		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code: want %d, got %d", http.StatusOK, respRec.Result().StatusCode)
		}
		if mock.ScoreboardMock.Calls.Delete.Times() != 1 || mock.ScoreboardMock.Calls.Delete[0] != "fit-1" {
			t.Errorf("Delete should be called for fit-1, got %v", mock.ScoreboardMock.Calls.Delete)
		}
	})
}

func TestDeleteScoreboardHandler(t *testing.T) {

	t.Run("it clears the scoreboard", func(t *testing.T) {
		mock := dbmock.New()
		mock.ScoreboardMock.Impl.DeleteAll = func(ctx context.Context) error {
			return nil
		}

		testee := handlers.DeleteScoreboardHandler(mock.Scoreboard())

		e := echo.New()
		c, respRec := httptestutil.Delete(e, "/api/scoreboard")

		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code: want %d, got %d", http.StatusOK, respRec.Result().StatusCode)
		}
		if mock.ScoreboardMock.Calls.DeleteAll.Times() != 1 {
			t.Errorf("DeleteAll should be called once")
		}
	})
}
