package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/molstud/moltrain/cmd/moltraind/handlers"
	httptestutil "github.com/molstud/moltrain/internal/testutils/http"
	"github.com/molstud/moltrain/pkg/api/auth"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain"
	kerr "github.com/molstud/moltrain/pkg/domain/errors"
	dbmock "github.com/molstud/moltrain/pkg/domain/storage/mock"
	"github.com/molstud/moltrain/pkg/utils/cmp"
)

func TestGetMoleculesHandler(t *testing.T) {
	const userId = "user-alice"

	t.Run("it lists the user's molecules", func(t *testing.T) {
		mock := dbmock.New()
		mock.MoleculeMock.Impl.GetAll = func(ctx context.Context, userId string) ([]domain.Molecule, error) {
			return []domain.Molecule{
				{SMILES: "O", Name: "Water", CML: "<cml/>"},
				{
					SMILES: "CCO", Name: "Ethanol", CML: "<cml/>",
					Analyses: map[string]domain.AnalysisResult{
						"fit-1": {"homo": 0.25},
					},
				},
			}, nil
		}

		testee := handlers.GetMoleculesHandler(mock.Molecules(), "userId")

		e := echo.New()
		c, respRec := httptestutil.Get(e, "/api/users/"+userId+"/molecules")
		c.SetParamNames("userId")
		c.SetParamValues(userId)
		auth.SetUserId(c, userId)

		if err := testee(c); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code: want %d, got %d", http.StatusOK, respRec.Result().StatusCode)
		}

		resp := []studio.Molecule{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if len(resp) != 2 {
			t.Fatalf("want 2 molecules, got %d", len(resp))
		}
		if resp[0].SMILES != "O" || resp[0].Name != "Water" {
			t.Errorf("unexpected molecule: %+v", resp[0])
		}
		if got := resp[1].Analyses["fit-1"]["homo"]; got != 0.25 {
			t.Errorf("analysis should survive the conversion, got %v", resp[1].Analyses)
		}

		if mock.MoleculeMock.Calls.GetAll.Times() != 1 || mock.MoleculeMock.Calls.GetAll[0] != userId {
			t.Errorf("GetAll should be called for %s, got %v", userId, mock.MoleculeMock.Calls.GetAll)
		}
	})

	t.Run("it is forbidden for another user", func(t *testing.T) {
		mock := dbmock.New()
		testee := handlers.GetMoleculesHandler(mock.Molecules(), "userId")

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/users/"+userId+"/molecules")
		c.SetParamNames("userId")
		c.SetParamValues(userId)
		auth.SetUserId(c, "someone-else")

		expectHTTPError(t, testee(c), http.StatusForbidden)
	})
}

func TestPutMoleculeHandler(t *testing.T) {
	const userId = "user-alice"

	request := func(t *testing.T, testee echo.HandlerFunc, body string) (echo.Context, error) {
		t.Helper()
		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/users/"+userId+"/molecules",
			strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("userId")
		c.SetParamValues(userId)
		auth.SetUserId(c, userId)
		return c, testee(c)
	}

	t.Run("it stores a molecule", func(t *testing.T) {
		mock := dbmock.New()
		mock.MoleculeMock.Impl.Upsert = func(ctx context.Context, userId string, mol domain.Molecule) error {
			return nil
		}

		testee := handlers.PutMoleculeHandler(mock.Molecules(), fakeChem{valid: true}, "userId")
		c, err := request(t, testee, `{"smiles": "CCO", "name": "Ethanol", "cml": "<cml/>"}`)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if c.Response().Status != http.StatusCreated {
			t.Errorf("status code: want %d, got %d", http.StatusCreated, c.Response().Status)
		}

		if mock.MoleculeMock.Calls.Upsert.Times() != 1 {
			t.Fatalf("Upsert should be called once")
		}
		stored := mock.MoleculeMock.Calls.Upsert[0]
		want := domain.Molecule{SMILES: "CCO", Name: "Ethanol", CML: "<cml/>"}
		if stored.UserId != userId || !stored.Molecule.Equal(want) {
			t.Errorf("unexpected Upsert call: %+v", stored)
		}
	})

	t.Run("it rejects a malformed SMILES code", func(t *testing.T) {
		mock := dbmock.New()

		testee := handlers.PutMoleculeHandler(mock.Molecules(), fakeChem{valid: false}, "userId")
		_, err := request(t, testee, `{"smiles": "not-a-molecule(", "name": "junk", "cml": ""}`)
		expectHTTPError(t, err, http.StatusUnprocessableEntity)
		if mock.MoleculeMock.Calls.Upsert.Times() != 0 {
			t.Errorf("nothing should be stored")
		}
	})

	t.Run("it is not found for an unknown user", func(t *testing.T) {
		mock := dbmock.New()
		mock.MoleculeMock.Impl.Upsert = func(ctx context.Context, userId string, mol domain.Molecule) error {
			return kerr.ErrMissing
		}

		testee := handlers.PutMoleculeHandler(mock.Molecules(), fakeChem{valid: true}, "userId")
		_, err := request(t, testee, `{"smiles": "CCO", "name": "Ethanol", "cml": "<cml/>"}`)
		expectHTTPError(t, err, http.StatusNotFound)
	})
}

func TestAnalyzeHandler(t *testing.T) {
	const userId = "user-alice"

	fitting := domain.Fitting{
		FittingId: "fit-1",
		ModelId:   "model-1",
		DatasetId: "ds-1",
		Labels:    []string{"homo", "lumo"},
		Epochs:    10,
		BatchSize: 64,
		Accuracy:  0.9,
	}

	request := func(t *testing.T, testee echo.HandlerFunc, body string) (*analyzeResult, error) {
		t.Helper()
		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/users/"+userId+"/analyze",
			strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("userId")
		c.SetParamValues(userId)
		auth.SetUserId(c, userId)
		if err := testee(c); err != nil {
			return nil, err
		}
		return &analyzeResult{status: respRec.Result().StatusCode, body: respRec.Body.Bytes()}, nil
	}

	t.Run("it predicts, stores and returns the analysis", func(t *testing.T) {
		mock := dbmock.New()
		mock.FittingMock.Impl.Get = func(ctx context.Context, userId string, fittingId string) (domain.Fitting, error) {
			return fitting, nil
		}
		mock.MoleculeMock.Impl.AddAnalysis = func(ctx context.Context, userId string, smiles string, fittingId string, results domain.AnalysisResult) error {
			return nil
		}

		testee := handlers.AnalyzeHandler(mock.Molecules(), mock.Fittings(), "userId")
		got, err := request(t, testee, `{"fittingId": "fit-1", "smiles": "CCO"}`)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got.status != http.StatusOK {
			t.Errorf("status code: want %d, got %d", http.StatusOK, got.status)
		}

		returned := domain.AnalysisResult{}
		if err := json.Unmarshal(got.body, &returned); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		for _, label := range fitting.Labels {
			value, ok := returned[label]
			if !ok {
				t.Errorf("label %s is not predicted: %v", label, returned)
				continue
			}
			if value < 0 || fitting.Accuracy < value {
				t.Errorf("prediction for %s out of range: %f", label, value)
			}
		}

		stored := mock.MoleculeMock.Calls.AddAnalysis
		if stored.Times() != 1 {
			t.Fatalf("AddAnalysis should be called once")
		}
		if stored[0].UserId != userId || stored[0].Smiles != "CCO" || stored[0].FittingId != "fit-1" {
			t.Errorf("unexpected AddAnalysis call: %+v", stored[0])
		}
		if !cmp.MapEq(domain.AnalysisResult(returned), stored[0].Results) {
			t.Errorf("stored and returned analyses differ: %v != %v", stored[0].Results, returned)
		}
	})

	t.Run("re-analyzing yields the same numbers", func(t *testing.T) {
		analyze := func() domain.AnalysisResult {
			mock := dbmock.New()
			mock.FittingMock.Impl.Get = func(ctx context.Context, userId string, fittingId string) (domain.Fitting, error) {
				return fitting, nil
			}
			mock.MoleculeMock.Impl.AddAnalysis = func(ctx context.Context, userId string, smiles string, fittingId string, results domain.AnalysisResult) error {
				return nil
			}

			testee := handlers.AnalyzeHandler(mock.Molecules(), mock.Fittings(), "userId")
			got, err := request(t, testee, `{"fittingId": "fit-1", "smiles": "CCO"}`)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			returned := domain.AnalysisResult{}
			if err := json.Unmarshal(got.body, &returned); err != nil {
				t.Fatalf("response is not JSON: %s", err)
			}
			return returned
		}

		first := analyze()
		second := analyze()
		if !cmp.MapEq(first, second) {
			t.Errorf("analyses differ: %v != %v", first, second)
		}
	})

	t.Run("it is not found for an unknown fitting", func(t *testing.T) {
		mock := dbmock.New()
		mock.FittingMock.Impl.Get = func(ctx context.Context, userId string, fittingId string) (domain.Fitting, error) {
			return domain.Fitting{}, kerr.ErrMissing
		}

		testee := handlers.AnalyzeHandler(mock.Molecules(), mock.Fittings(), "userId")
		_, err := request(t, testee, `{"fittingId": "no-such-fitting", "smiles": "CCO"}`)
		expectHTTPError(t, err, http.StatusNotFound)
	})

	t.Run("it is not found for an unknown molecule", func(t *testing.T) {
		mock := dbmock.New()
		mock.FittingMock.Impl.Get = func(ctx context.Context, userId string, fittingId string) (domain.Fitting, error) {
			return fitting, nil
		}
		mock.MoleculeMock.Impl.AddAnalysis = func(ctx context.Context, userId string, smiles string, fittingId string, results domain.AnalysisResult) error {
			return kerr.ErrMissing
		}

		testee := handlers.AnalyzeHandler(mock.Molecules(), mock.Fittings(), "userId")
		_, err := request(t, testee, `{"fittingId": "fit-1", "smiles": "CCO"}`)
		expectHTTPError(t, err, http.StatusNotFound)
	})

	t.Run("it rejects bad requests", func(t *testing.T) {
		for name, body := range map[string]string{
			"no fittingId": `{"smiles": "CCO"}`,
			"no smiles":    `{"fittingId": "fit-1"}`,
		} {
			t.Run(name, func(t *testing.T) {
				mock := dbmock.New()
				testee := handlers.AnalyzeHandler(mock.Molecules(), mock.Fittings(), "userId")
				_, err := request(t, testee, body)
				expectHTTPError(t, err, http.StatusBadRequest)
			})
		}
	})
}

type analyzeResult struct {
	status int
	body   []byte
}
