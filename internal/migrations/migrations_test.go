package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(files) == 0 {
		t.Fatal("Expected embedded migrations")
	}

	for _, name := range files {
		data, err := FS.ReadFile(name)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Errorf("Migration %s is missing goose annotations", name)
		}
	}
}
