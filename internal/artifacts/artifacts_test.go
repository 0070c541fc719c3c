package artifacts

import (
	"path/filepath"
	"reflect"
	"testing"
)

type payload struct {
	Name   string
	Values []float64
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "obj.gob")
	want := payload{Name: "transformer", Values: []float64{1.5, -2, 0}}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var got payload
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("Round trip mismatch: %+v vs %+v", got, want)
	}
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.gob")

	if err := Save(path, payload{Name: "first"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := Save(path, payload{Name: "second"}); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	var got payload
	if err := Load(path, &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Name != "second" {
		t.Errorf("Expected overwritten artifact, got %q", got.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var got payload
	if err := Load(filepath.Join(t.TempDir(), "absent.gob"), &got); err == nil {
		t.Error("Expected error for missing artifact")
	}
}
