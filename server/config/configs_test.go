package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DEBUGMODE", "True")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.ServerPort)
	}
	if !cfg.DebugMode {
		t.Error("Expected debug mode on")
	}
	expected := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.CORSOrigins, expected) {
		t.Errorf("Expected origins %v, got %v", expected, cfg.CORSOrigins)
	}
}
