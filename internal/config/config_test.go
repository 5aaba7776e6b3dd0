package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TICKET_STATUSES", "")
	t.Setenv("TOKEN_TTL", "")
	cfg := Load()
	if cfg.TokenTTL != 8*time.Hour {
		t.Fatalf("TokenTTL = %s, want 8h", cfg.TokenTTL)
	}
	if len(cfg.TicketStatuses) != 2 || cfg.TicketStatuses[0] != "Chưa thanh toán" {
		t.Fatalf("unexpected default statuses %v", cfg.TicketStatuses)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TICKET_STATUSES", " Chưa thanh toán , Đã thanh toán,Đang sửa ,")
	t.Setenv("TICKET_STATUS_STRICT", "true")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()
	if got := len(cfg.TicketStatuses); got != 3 {
		t.Fatalf("expected 3 statuses, got %d (%v)", got, cfg.TicketStatuses)
	}
	if cfg.TicketStatuses[2] != "Đang sửa" {
		t.Fatalf("status not trimmed: %q", cfg.TicketStatuses[2])
	}
	if !cfg.TicketStatusStrict {
		t.Fatal("expected strict mode")
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("TokenTTL = %s, want 30m", cfg.TokenTTL)
	}
	if cfg.DBMaxOpenConns != 20 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.DBMaxOpenConns)
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	loc := cfg.Location()
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	if offset != 7*60*60 {
		t.Fatalf("expected UTC+7 fallback, got offset %d", offset)
	}
}

func TestValidateJWTSecret(t *testing.T) {
	cases := []struct {
		env, secret string
		ok          bool
	}{
		{"dev", DefaultJWTSecret, true},
		{"dev", "", true},
		{"production", DefaultJWTSecret, false},
		{"production", "", false},
		{"staging", DefaultJWTSecret, false},
		{"production", "s3cr3t-from-vault", true},
	}
	for _, c := range cases {
		err := (&Config{Env: c.env, JWTSecret: c.secret}).Validate()
		if (err == nil) != c.ok {
			t.Errorf("Validate(env=%s, secret=%q) = %v, want ok=%v", c.env, c.secret, err, c.ok)
		}
	}
}

func TestLoadUnsetSecretFailsOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	cfg := Load()
	if cfg.JWTSecret != DefaultJWTSecret {
		t.Fatalf("JWTSecret = %q, want default", cfg.JWTSecret)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected production config with default secret to be rejected")
	}
}
