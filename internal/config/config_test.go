package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout() != 15*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_YamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	content := "api_base_url: https://shop.example/api\nrequest_timeout_seconds: 5\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://shop.example/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout() != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: https://file.example/api\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STOREFRONT_API_URL", "https://env.example/api")
	t.Setenv("STOREFRONT_REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://env.example/api" {
		t.Errorf("env override lost: APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoad_MalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("api_base_url: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml should fail loudly")
	}
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	if err := os.WriteFile(path, []byte("request_timeout_seconds: -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("non-positive timeout should be rejected")
	}
}
