package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/tanksim/internal/config"
	"github.com/san-kum/tanksim/internal/dynamo"
	"github.com/san-kum/tanksim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times: []float64{0, 60},
		States: []dynamo.State{
			dynamo.ToKelvin([]float64{40, 40, 40}),
			dynamo.ToKelvin([]float64{39.5, 39.8, 39.9}),
		},
		Inputs: []dynamo.Signals{
			{"outlet_flow": 0.1, "heater_state": 0},
		},
		Outputs: []dynamo.Signals{{}, {"T_0": 39.5}},
		Metrics: map[string]float64{
			"stored_energy": 1.5,
		},
		StepsTaken: 1,
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.ForModel(config.ModelTank)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := testConfig(t)
	runID, err := st.Save("", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Model != config.ModelTank {
		t.Errorf("expected model 'tank', got '%s'", meta.Model)
	}
	if meta.Layers != 3 {
		t.Errorf("expected 3 layers, got %d", meta.Layers)
	}
	if meta.Metrics["stored_energy"] != 1.5 {
		t.Errorf("expected stored_energy 1.5, got %f", meta.Metrics["stored_energy"])
	}
	if len(meta.Inputs) != 2 || meta.Inputs[0] != "heater_state" {
		t.Errorf("unexpected inputs %v", meta.Inputs)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
	if len(times) != 2 || times[1] != 60 {
		t.Errorf("unexpected times %v", times)
	}
	if states[1][0] != 39.5 {
		t.Errorf("expected top layer 39.5 °C, got %f", states[1][0])
	}

	loaded, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if loaded.Tank != cfg.Tank {
		t.Errorf("config mismatch: %+v", loaded.Tank)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg := testConfig(t)
	if _, err := st.Save("first", cfg, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save("second", cfg, testResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "not_a_run"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save("layout", testConfig(t), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "states.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, testConfig(t), testResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != 1 || len(data.Temps) != 2 || len(data.Inputs) != 1 {
		t.Errorf("unexpected export %+v", data)
	}
	if math.Abs(data.Temps[0][0]-40) > 1e-9 {
		t.Errorf("expected 40 °C, got %f", data.Temps[0][0])
	}
}

func TestExportStored(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save("stored", testConfig(t), testResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportStored(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(data.Times) != 2 || data.Model != config.ModelTank {
		t.Errorf("unexpected export %+v", data)
	}
}
