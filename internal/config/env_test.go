package config

import (
	"testing"
	"time"
)

func TestLoadEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com, https://app.example.com")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("HASH_ITERATIONS", "2")

	config := &AppConfig{}

	if err := LoadEnv(config); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if config.App.Environment != "production" {
		t.Errorf("Expected App.Environment = %s, got %s", "production", config.App.Environment)
	}
	if config.Server.Port != 9090 {
		t.Errorf("Expected Server.Port = %d, got %d", 9090, config.Server.Port)
	}
	if config.Session.TTL != 2*time.Hour {
		t.Errorf("Expected Session.TTL = %v, got %v", 2*time.Hour, config.Session.TTL)
	}
	if config.Store.Backend != "redis" {
		t.Errorf("Expected Store.Backend = %s, got %s", "redis", config.Store.Backend)
	}
	if config.Store.Redis.Addr != "cache:6380" {
		t.Errorf("Expected Store.Redis.Addr = %s, got %s", "cache:6380", config.Store.Redis.Addr)
	}
	if config.Store.Database.Driver != "postgres" {
		t.Errorf("Expected Store.Database.Driver = %s, got %s", "postgres", config.Store.Database.Driver)
	}
	if config.Chat.APIKey != "test-key" {
		t.Errorf("Expected Chat.APIKey = %s, got %s", "test-key", config.Chat.APIKey)
	}
	if config.Mail.SMTP.Port != 2525 {
		t.Errorf("Expected Mail.SMTP.Port = %d, got %d", 2525, config.Mail.SMTP.Port)
	}
	if len(config.CORS.AllowedOrigins) != 2 || config.CORS.AllowedOrigins[1] != "https://app.example.com" {
		t.Errorf("Expected trimmed CORS.AllowedOrigins, got %v", config.CORS.AllowedOrigins)
	}
	if !config.RateLimit.Enabled {
		t.Errorf("Expected RateLimit.Enabled = true")
	}
	if config.PasswordHash.Iterations != 2 {
		t.Errorf("Expected PasswordHash.Iterations = %d, got %d", 2, config.PasswordHash.Iterations)
	}
}

func TestProcessStructEnv(t *testing.T) {
	type Inner struct {
		Name string `env:"TEST_INNER_NAME"`
	}
	type TestStruct struct {
		StringField string        `env:"TEST_STRING"`
		IntField    int           `env:"TEST_INT"`
		UintField   uint32        `env:"TEST_UINT"`
		BoolField   bool          `env:"TEST_BOOL"`
		DurField    time.Duration `env:"TEST_DURATION"`
		StrSlice    []string      `env:"TEST_SLICE"`
		Nested      Inner
		NoEnvTag    string
	}

	t.Setenv("TEST_STRING", "test-value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_UINT", "7")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "15m")
	t.Setenv("TEST_SLICE", "item1,item2,item3")
	t.Setenv("TEST_INNER_NAME", "inner")

	testStruct := &TestStruct{NoEnvTag: "untouched"}

	if err := processStructEnv(testStruct); err != nil {
		t.Fatalf("processStructEnv() error = %v", err)
	}

	if testStruct.StringField != "test-value" {
		t.Errorf("Expected StringField = %s, got %s", "test-value", testStruct.StringField)
	}
	if testStruct.IntField != 42 {
		t.Errorf("Expected IntField = %d, got %d", 42, testStruct.IntField)
	}
	if testStruct.UintField != 7 {
		t.Errorf("Expected UintField = %d, got %d", 7, testStruct.UintField)
	}
	if !testStruct.BoolField {
		t.Errorf("Expected BoolField = true")
	}
	if testStruct.DurField != 15*time.Minute {
		t.Errorf("Expected DurField = %v, got %v", 15*time.Minute, testStruct.DurField)
	}
	if len(testStruct.StrSlice) != 3 || testStruct.StrSlice[2] != "item3" {
		t.Errorf("Expected StrSlice = [item1 item2 item3], got %v", testStruct.StrSlice)
	}
	if testStruct.Nested.Name != "inner" {
		t.Errorf("Expected Nested.Name = %s, got %s", "inner", testStruct.Nested.Name)
	}
	if testStruct.NoEnvTag != "untouched" {
		t.Errorf("Expected NoEnvTag to stay untouched, got %s", testStruct.NoEnvTag)
	}
}

func TestProcessStructEnvInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"invalid int", "TEST_BAD_INT", "not-a-number"},
		{"invalid duration", "TEST_BAD_DURATION", "soon"},
		{"invalid bool", "TEST_BAD_BOOL", "maybe"},
	}

	type BadStruct struct {
		IntField  int           `env:"TEST_BAD_INT"`
		DurField  time.Duration `env:"TEST_BAD_DURATION"`
		BoolField bool          `env:"TEST_BAD_BOOL"`
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			if err := processStructEnv(&BadStruct{}); err == nil {
				t.Errorf("Expected an error for %s=%s", tt.env, tt.value)
			}
		})
	}
}
