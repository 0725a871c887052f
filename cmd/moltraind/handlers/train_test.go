package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
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

type startCall struct {
	UserId    string
	DatasetId string
	ModelId   string
	Labels    []string
	Epochs    int
	BatchSize int
}

type continueCall struct {
	UserId    string
	FittingId string
	Epochs    int
}

type fakeAdmitter struct {
	startErr      error
	continueTotal int
	continueErr   error
	stopped       bool

	starts    []startCall
	continues []continueCall
	stops     []string
}

var _ handlers.TrainingAdmitter = &fakeAdmitter{}

func (f *fakeAdmitter) Start(userId string, datasetId string, modelId string, labels []string, epochs int, batchSize int) error {
	f.starts = append(f.starts, startCall{
		UserId: userId, DatasetId: datasetId, ModelId: modelId,
		Labels: labels, Epochs: epochs, BatchSize: batchSize,
	})
	return f.startErr
}

func (f *fakeAdmitter) Continue(ctx context.Context, userId string, fittingId string, epochs int) (int, error) {
	f.continues = append(f.continues, continueCall{
		UserId: userId, FittingId: fittingId, Epochs: epochs,
	})
	return f.continueTotal, f.continueErr
}

func (f *fakeAdmitter) Stop(userId string) bool {
	f.stops = append(f.stops, userId)
	return f.stopped
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatal("no error is returned")
	}
	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		t.Fatalf("error is not echo.HTTPError: %+v", err)
	}
	if echoErr.Code != code {
		t.Errorf("status code: want %d, got %d", code, echoErr.Code)
	}
}

func TestStartTrainingHandler(t *testing.T) {
	const userId = "user-alice"

	request := func(t *testing.T, testee echo.HandlerFunc, body string, as string) (*httptest.ResponseRecorder, error) {
		t.Helper()
		e := echo.New()
		c, respRec := httptestutil.Post(
			e, "/api/users/"+userId+"/train",
			strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("userId")
		c.SetParamValues(userId)
		auth.SetUserId(c, as)
		return respRec, testee(c)
	}

	t.Run("it admits a training", func(t *testing.T) {
		mock := dbmock.New()
		mock.ModelMock.Impl.Get = func(ctx context.Context, userId string, modelId string) (domain.ModelConfig, error) {
			return domain.ModelConfig{ModelId: modelId, Name: "my model"}, nil
		}
		admitter := &fakeAdmitter{}

		testee := handlers.StartTrainingHandler(admitter, mock.Models(), "userId")
		respRec, err := request(
			t, testee,
			`{"datasetId": "ds-1", "modelId": "model-1", "labels": ["homo", "lumo"], "epochs": 10, "batchSize": 64}`,
			userId,
		)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if respRec.Result().StatusCode != http.StatusAccepted {
			t.Errorf("status code: want %d, got %d", http.StatusAccepted, respRec.Result().StatusCode)
		}

		resp := studio.TrainAccepted{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if resp.Epochs != 10 {
			t.Errorf("accepted epochs: want 10, got %d", resp.Epochs)
		}

		if len(admitter.starts) != 1 {
			t.Fatalf("Start should be called once, was %d times", len(admitter.starts))
		}
		got := admitter.starts[0]
		if got.UserId != userId || got.DatasetId != "ds-1" || got.ModelId != "model-1" ||
			!cmp.SliceEq(got.Labels, []string{"homo", "lumo"}) ||
			got.Epochs != 10 || got.BatchSize != 64 {
			t.Errorf("unexpected Start call: %+v", got)
		}
	})

	t.Run("it is not found when the model does not exist", func(t *testing.T) {
		mock := dbmock.New()
		mock.ModelMock.Impl.Get = func(ctx context.Context, userId string, modelId string) (domain.ModelConfig, error) {
			return domain.ModelConfig{}, kerr.ErrMissing
		}
		admitter := &fakeAdmitter{}

		testee := handlers.StartTrainingHandler(admitter, mock.Models(), "userId")
		_, err := request(
			t, testee,
			`{"datasetId": "ds-1", "modelId": "no-such-model", "labels": ["homo"], "epochs": 10, "batchSize": 64}`,
			userId,
		)
		expectHTTPError(t, err, http.StatusNotFound)
		if len(admitter.starts) != 0 {
			t.Errorf("nothing should be admitted")
		}
	})

	t.Run("it is unavailable while another training runs", func(t *testing.T) {
		mock := dbmock.New()
		mock.ModelMock.Impl.Get = func(ctx context.Context, userId string, modelId string) (domain.ModelConfig, error) {
			return domain.ModelConfig{ModelId: modelId}, nil
		}
		admitter := &fakeAdmitter{startErr: kerr.ErrAlreadyRunning}

		testee := handlers.StartTrainingHandler(admitter, mock.Models(), "userId")
		_, err := request(
			t, testee,
			`{"datasetId": "ds-1", "modelId": "model-1", "labels": ["homo"], "epochs": 10, "batchSize": 64}`,
			userId,
		)
		expectHTTPError(t, err, http.StatusServiceUnavailable)
	})

	t.Run("it rejects bad requests", func(t *testing.T) {
		for name, body := range map[string]string{
			"no datasetId":       `{"modelId": "model-1", "labels": ["homo"], "epochs": 10, "batchSize": 64}`,
			"no modelId":         `{"datasetId": "ds-1", "labels": ["homo"], "epochs": 10, "batchSize": 64}`,
			"no labels":          `{"datasetId": "ds-1", "modelId": "model-1", "epochs": 10, "batchSize": 64}`,
			"zero epochs":        `{"datasetId": "ds-1", "modelId": "model-1", "labels": ["homo"], "epochs": 0, "batchSize": 64}`,
			"negative batchSize": `{"datasetId": "ds-1", "modelId": "model-1", "labels": ["homo"], "epochs": 10, "batchSize": -1}`,
		} {
			t.Run(name, func(t *testing.T) {
				mock := dbmock.New()
				admitter := &fakeAdmitter{}

				testee := handlers.StartTrainingHandler(admitter, mock.Models(), "userId")
				_, err := request(t, testee, body, userId)
				expectHTTPError(t, err, http.StatusBadRequest)
				if len(admitter.starts) != 0 {
					t.Errorf("nothing should be admitted")
				}
			})
		}
	})

	t.Run("it is forbidden for another user", func(t *testing.T) {
		mock := dbmock.New()
		admitter := &fakeAdmitter{}

		testee := handlers.StartTrainingHandler(admitter, mock.Models(), "userId")
		_, err := request(
			t, testee,
			`{"datasetId": "ds-1", "modelId": "model-1", "labels": ["homo"], "epochs": 10, "batchSize": 64}`,
			"someone-else",
		)
		expectHTTPError(t, err, http.StatusForbidden)
	})
}

func TestContinueTrainingHandler(t *testing.T) {
	const userId = "user-alice"

	request := func(t *testing.T, testee echo.HandlerFunc, body string) (*httptest.ResponseRecorder, error) {
		t.Helper()
		e := echo.New()
		c, respRec := httptestutil.Patch(
			e, "/api/users/"+userId+"/train",
			strings.NewReader(body),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("userId")
		c.SetParamValues(userId)
		auth.SetUserId(c, userId)
		return respRec, testee(c)
	}

	t.Run("it resumes a fitting and reports the new total", func(t *testing.T) {
		admitter := &fakeAdmitter{continueTotal: 15}

		testee := handlers.ContinueTrainingHandler(admitter, "userId")
		respRec, err := request(t, testee, `{"fittingId": "fit-1", "epochs": 5}`)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if respRec.Result().StatusCode != http.StatusAccepted {
			t.Errorf("status code: want %d, got %d", http.StatusAccepted, respRec.Result().StatusCode)
		}

		resp := studio.TrainAccepted{}
		if err := json.Unmarshal(respRec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if resp.Epochs != 15 {
			t.Errorf("accepted epochs: want 15, got %d", resp.Epochs)
		}

		if len(admitter.continues) != 1 {
			t.Fatalf("Continue should be called once, was %d times", len(admitter.continues))
		}
		got := admitter.continues[0]
		if got.UserId != userId || got.FittingId != "fit-1" || got.Epochs != 5 {
			t.Errorf("unexpected Continue call: %+v", got)
		}
	})

	t.Run("it is not found for an unknown fitting", func(t *testing.T) {
		admitter := &fakeAdmitter{continueErr: kerr.ErrMissing}

		testee := handlers.ContinueTrainingHandler(admitter, "userId")
		_, err := request(t, testee, `{"fittingId": "no-such-fitting", "epochs": 5}`)
		expectHTTPError(t, err, http.StatusNotFound)
	})

	t.Run("it is unavailable while another training runs", func(t *testing.T) {
		admitter := &fakeAdmitter{continueErr: kerr.ErrAlreadyRunning}

		testee := handlers.ContinueTrainingHandler(admitter, "userId")
		_, err := request(t, testee, `{"fittingId": "fit-1", "epochs": 5}`)
		expectHTTPError(t, err, http.StatusServiceUnavailable)
	})

	t.Run("it rejects bad requests", func(t *testing.T) {
		for name, body := range map[string]string{
			"no fittingId": `{"epochs": 5}`,
			"zero epochs":  `{"fittingId": "fit-1", "epochs": 0}`,
		} {
			t.Run(name, func(t *testing.T) {
				admitter := &fakeAdmitter{}

				testee := handlers.ContinueTrainingHandler(admitter, "userId")
				_, err := request(t, testee, body)
				expectHTTPError(t, err, http.StatusBadRequest)
				if len(admitter.continues) != 0 {
					t.Errorf("nothing should be admitted")
				}
			})
		}
	})
}

func TestStopTrainingHandler(t *testing.T) {
	const userId = "user-alice"

	request := func(t *testing.T, testee echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
		t.Helper()
		e := echo.New()
		c, respRec := httptestutil.Delete(e, "/api/users/"+userId+"/train")
		c.SetParamNames("userId")
		c.SetParamValues(userId)
		auth.SetUserId(c, userId)
		return respRec, testee(c)
	}

	t.Run("it stops the running training", func(t *testing.T) {
		admitter := &fakeAdmitter{stopped: true}

		testee := handlers.StopTrainingHandler(admitter, "userId")
		respRec, err := request(t, testee)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if respRec.Result().StatusCode != http.StatusOK {
			t.Errorf("status code: want %d, got %d", http.StatusOK, respRec.Result().StatusCode)
		}
		if len(admitter.stops) != 1 || admitter.stops[0] != userId {
			t.Errorf("Stop should be called for %s, got %v", userId, admitter.stops)
		}
	})

	t.Run("it is not found when nothing runs", func(t *testing.T) {
		admitter := &fakeAdmitter{stopped: false}

		testee := handlers.StopTrainingHandler(admitter, "userId")
		_, err := request(t, testee)
		expectHTTPError(t, err, http.StatusNotFound)
	})
}
