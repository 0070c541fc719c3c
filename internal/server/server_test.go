package server

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"census-income/internal/artifacts"
	"census-income/internal/dataset"
	"census-income/internal/model"
	"census-income/internal/predict"
	"census-income/internal/preprocess"
	"census-income/internal/storage"
)

// stubModel returns a fixed label and probability vector. Exported fields so
// gob can carry it inside a SavedModel.
type stubModel struct {
	Label float64
	Proba []float64
}

func (m *stubModel) Fit([][]float64, []float64) error { return nil }

func (m *stubModel) Predict(x [][]float64) ([]float64, error) {
	pred := make([]float64, len(x))
	for i := range pred {
		pred[i] = m.Label
	}
	return pred, nil
}

func (m *stubModel) PredictProba(x [][]float64) ([][]float64, error) {
	proba := make([][]float64, len(x))
	for i := range proba {
		proba[i] = m.Proba
	}
	return proba, nil
}

func init() {
	gob.Register(&stubModel{})
}

func newTestService(t *testing.T, clf model.Classifier) *predict.Service {
	t.Helper()
	dir := t.TempDir()

	x := make([][]float64, 4)
	for i := range x {
		row := make([]float64, dataset.NumFeatures)
		for j := range row {
			row[j] = float64(i*2 + j)
		}
		x[i] = row
	}
	transformer := preprocess.NewStandardPipeline()
	if _, err := transformer.FitTransform(x); err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	transformerPath := filepath.Join(dir, "transformer.gob")
	modelPath := filepath.Join(dir, "model.gob")
	if err := artifacts.Save(transformerPath, transformer); err != nil {
		t.Fatalf("Save transformer failed: %v", err)
	}
	saved := model.SavedModel{Name: "Stub", Accuracy: 0.9, Model: clf}
	if err := artifacts.Save(modelPath, &saved); err != nil {
		t.Fatalf("Save model failed: %v", err)
	}
	return predict.NewService(transformerPath, modelPath, 8, nil)
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func validBody() map[string]any {
	return map[string]any{
		"age": 39, "workclass": 4, "education_num": 13,
		"marital_status": 2, "occupation": 1, "relationship": 0,
		"race": 4, "sex": 1, "capital_gain": 2174,
		"capital_loss": 0, "hours_per_week": 40, "native_country": 39,
	}
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPredictEndpoint(t *testing.T) {
	svc := newTestService(t, &stubModel{Label: 1, Proba: []float64{0.2, 0.8}})
	srv := New(svc, nil, 8080)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/predict", validBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Status != "success" || resp.Prediction != 1 || resp.Label != ">50K" {
		t.Errorf("Unexpected response: %+v", resp)
	}
	if resp.Confidence == nil || *resp.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %v", resp.Confidence)
	}
}

func TestPredictEndpoint_LowIncomeLabel(t *testing.T) {
	svc := newTestService(t, &stubModel{Label: 0, Proba: []float64{0.9, 0.1}})
	srv := New(svc, nil, 8080)

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/predict", validBody())

	var resp PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Prediction != 0 || resp.Label != "<=50K" {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestPredictEndpoint_ValidationBeforeModel(t *testing.T) {
	// The service points at artifacts that do not exist; a validation failure
	// must be reported without ever touching the model.
	svc := predict.NewService("/nonexistent/t.gob", "/nonexistent/m.gob", 8, nil)
	srv := New(svc, nil, 8080)

	body := validBody()
	delete(body, "education_num")

	rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/predict", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "education_num") {
		t.Errorf("Error should name the missing field, got %s", rec.Body.String())
	}
}

func TestPredictEndpoint_InvalidJSON(t *testing.T) {
	svc := newTestService(t, &stubModel{Label: 0, Proba: []float64{1, 0}})
	srv := New(svc, nil, 8080)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestPredictEndpoint_MethodNotAllowed(t *testing.T) {
	svc := newTestService(t, &stubModel{Label: 0, Proba: []float64{1, 0}})
	srv := New(svc, nil, 8080)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/predict", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	svc := newTestService(t, &stubModel{Label: 1, Proba: []float64{0.3, 0.7}})
	store := newTestStore(t)
	srv := New(svc, store, 8080)

	for i := 0; i < 3; i++ {
		rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/predict", validBody())
		if rec.Code != http.StatusOK {
			t.Fatalf("Predict %d failed: %d", i, rec.Code)
		}
	}

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/history?limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Count != 2 || len(resp.Data) != 2 {
		t.Errorf("Expected 2 records, got count=%d len=%d", resp.Count, len(resp.Data))
	}
	if resp.Data[0].Label != 1 || resp.Data[0].Input.Age != 39 {
		t.Errorf("Record content mismatch: %+v", resp.Data[0])
	}
}

func TestHistoryEndpoint_DisabledWithoutStore(t *testing.T) {
	svc := newTestService(t, &stubModel{Label: 0, Proba: []float64{1, 0}})
	srv := New(svc, nil, 8080)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/history", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when history is disabled, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	svc := newTestService(t, &stubModel{Label: 0, Proba: []float64{1, 0}})
	srv := New(svc, nil, 8080)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestHealthEndpoint_ArtifactsMissing(t *testing.T) {
	svc := predict.NewService("/nonexistent/t.gob", "/nonexistent/m.gob", 8, nil)
	srv := New(svc, nil, 8080)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}
