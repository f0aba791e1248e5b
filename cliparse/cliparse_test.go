package cliparse

import (
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "JWT_SECRET", "UPLOAD_DIR", "ADMIN_EMAIL", "ADMIN_PASSWORD"} {
		t.Setenv(k, "")
	}
}

func TestParseFlags(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-p", "9000", "-d", "vote.db", "-t", "sqlite", "-jwt-secret", "s3cret"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.DatabaseURL != "vote.db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q", cfg.DatabaseType)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, want default uploads", cfg.UploadDir)
	}
}

func TestParseFlagsEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://localhost/vote")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("UPLOAD_DIR", "/srv/uploads")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("DatabaseType = %q", cfg.DatabaseType)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.UploadDir != "/srv/uploads" {
		t.Errorf("UploadDir = %q", cfg.UploadDir)
	}
}

func TestParseFlagsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "missing database url", args: []string{"-jwt-secret", "x"}},
		{name: "missing jwt secret", args: []string{"-d", "vote.db"}},
		{name: "bad database type", args: []string{"-d", "vote.db", "-t", "oracle", "-jwt-secret", "x"}},
		{name: "bad port env", args: []string{"-d", "vote.db", "-jwt-secret", "x"}, env: map[string]string{"PORT": "not-a-number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
