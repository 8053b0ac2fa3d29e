package topic

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	reg, err := Load(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d records", reg.Len())
	}
	if _, err := reg.Lookup("KDS 1", "정착"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_ParsesRegistry(t *testing.T) {
	dir := t.TempDir()
	data := `[
		{"code": "KDS 14 20 52", "topic": "정착길이", "title": "정착 및 이음",
		 "summary": "정착길이 산정 요약", "key_points": ["기본 정착길이", "보정계수"],
		 "formulas": ["ld = ldb × 보정계수"], "tokens": 120}
	]`
	if err := os.WriteFile(filepath.Join(dir, "topics.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := Load(dir, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", reg.Len())
	}

	rec, err := reg.Lookup("kds-14-20-52", "정착길이")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Title != "정착 및 이음" || rec.Tokens != 120 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if len(rec.KeyPoints) != 2 || len(rec.Formulas) != 1 {
		t.Errorf("lists not parsed: %+v", rec)
	}
}

func TestLoad_MalformedRegistryFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "topics.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir, discardLogger()); err == nil {
		t.Error("expected error for malformed registry")
	}
}

func TestLookup_NormalizesCodeAndTopic(t *testing.T) {
	reg := New(Record{Code: "KDS 14 20 52", Topic: "정착 길이", Summary: "요약"})

	rec, err := reg.Lookup("KDS142052", "정착길이")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Summary != "요약" {
		t.Errorf("unexpected record: %+v", rec)
	}

	if _, err := reg.Lookup("KDS 14 20 52", "없는 주제"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
