package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

const validPublic = `addr: ":8080"
base_url: "http://localhost:8080"
verify_token_ttl: 3600
session_token_ttl: 86400
max_image_size: 5242880
allowed_image_mime_types: ["image/jpeg", "image/png"]
image_dir: "./public/images"
log_level: "info"
`

const validPrivate = `jwt_key: "k"
pg:
  host: "localhost"
  port: 5432
  user: "u"
  password: "p"
  dbname: "accounts"
smtp:
  host: "smtp.example.com"
  port: 587
  username: "mailer"
  password: "secret"
  sender: "noreply@example.com"
`

func TestMustLoad(t *testing.T) {
	dir := writeConfigs(t, validPublic, validPrivate)

	cfg := MustLoad(dir)

	if cfg.JwtKey() != "k" {
		t.Errorf("unexpected jwt key: %q", cfg.JwtKey())
	}
	if got := cfg.VerifyTokenTTL(); got != time.Hour {
		t.Errorf("verify token ttl = %v, want 1h", got)
	}
	if got := cfg.SessionTokenTTL(); got != 24*time.Hour {
		t.Errorf("session token ttl = %v, want 24h", got)
	}
	if cfg.Public.MaxImageSizeBytes != 5<<20 {
		t.Errorf("max image size = %d, want 5MiB", cfg.Public.MaxImageSizeBytes)
	}
}

func TestMustLoad_RequiredFields(t *testing.T) {
	// verify_token_ttl intentionally missing
	public := `addr: ":8080"
base_url: "http://localhost:8080"
session_token_ttl: 86400
max_image_size: 5242880
`
	dir := writeConfigs(t, public, validPrivate)

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing required field, got none")
		}
	}()

	_ = MustLoad(dir)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing config folder, got none")
		}
	}()

	_ = MustLoad(filepath.Join(t.TempDir(), "nope"))
}
