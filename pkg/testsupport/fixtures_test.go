package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFixture(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("test fixture content")

	if err := os.WriteFile(testFile, testContent, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result := LoadFixture(t, testFile)
	if string(result) != string(testContent) {
		t.Errorf("expected %q, got %q", testContent, result)
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.json")
	testData := map[string]any{
		"name":  "test",
		"value": 42,
		"items": []string{"a", "b", "c"},
	}

	jsonData, err := json.Marshal(testData)
	if err != nil {
		t.Fatalf("failed to marshal test data: %v", err)
	}

	if err := os.WriteFile(testFile, jsonData, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	var result map[string]any
	LoadFixtureJSON(t, testFile, &result)

	if result["name"] != "test" {
		t.Errorf("expected name=test, got %v", result["name"])
	}
	if result["value"] != float64(42) { // JSON unmarshals numbers as float64
		t.Errorf("expected value=42, got %v", result["value"])
	}
}

func TestFixturePath(t *testing.T) {
	expected := filepath.Join("testdata", "keys.json")
	if got := FixturePath("keys.json"); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestNewLogger(t *testing.T) {
	log, rec := NewLogger(t)

	log.Info("visible", "id", 1)
	log.V(1).Info("debug line")
	log.V(2).Info("too verbose")

	if !rec.Contains("visible") {
		t.Error("expected info line to be recorded")
	}
	if !rec.Contains("debug line") {
		t.Error("expected V(1) line to be recorded")
	}
	if rec.Contains("too verbose") {
		t.Error("expected V(2) line to be filtered")
	}
}
