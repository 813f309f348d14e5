package internal

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Geocode.Delay() != 250*time.Millisecond {
		t.Errorf("geocode delay = %v", cfg.Geocode.Delay())
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("auth should default to disabled")
	}
}

func TestHTTPPortValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should fail validation")
	}
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port above 65535 should fail validation")
	}
}

func TestStoreRequiresPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Store.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty store path should fail validation")
	}
}

func TestGeocodeValidationOnlyWhenEnabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Geocode.Enabled = false
	cfg.Geocode.BaseURL = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled geocode should skip validation: %v", err)
	}

	cfg.Geocode.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Error("enabled geocode without base_url should fail")
	}
}

func TestInboxValidationOnlyWhenEnabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Inbox.Enabled = true
	cfg.Inbox.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("enabled inbox without path should fail")
	}
}

func TestAuthModes(t *testing.T) {
	cases := []struct {
		name    string
		mode    string
		token   string
		wantErr bool
		enabled bool
	}{
		{"empty mode normalises to disabled", "", "", false, false},
		{"disabled", AuthModeDisabled, "", false, false},
		{"token with secret", AuthModeToken, "secret", false, true},
		{"token without secret", AuthModeToken, "", true, false},
		{"unknown mode", "oauth", "", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := AuthConfig{Mode: tc.mode, Token: tc.token}
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
			if err == nil && cfg.AuthEnabled() != tc.enabled {
				t.Errorf("enabled = %v, want %v", cfg.AuthEnabled(), tc.enabled)
			}
		})
	}
}
