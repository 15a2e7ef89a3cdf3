package env

import "testing"

func TestGetEnv(t *testing.T) {
	Env = map[string]string{"APP_PORT": "9000"}
	defer func() { Env = nil }()

	if got := GetEnv("APP_PORT", "4000"); got != "9000" {
		t.Fatalf("GetEnv(APP_PORT) = %q, want 9000", got)
	}
	if got := GetEnv("MISSING_KEY_FOR_TEST", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv(missing) = %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	Env = map[string]string{"SWEEP": "25", "BROKEN": "abc"}
	defer func() { Env = nil }()

	if got := GetEnvInt("SWEEP", 15); got != 25 {
		t.Fatalf("GetEnvInt(SWEEP) = %d, want 25", got)
	}
	if got := GetEnvInt("BROKEN", 15); got != 15 {
		t.Fatalf("GetEnvInt(BROKEN) = %d, want 15", got)
	}
	if got := GetEnvInt("ABSENT", 15); got != 15 {
		t.Fatalf("GetEnvInt(ABSENT) = %d, want 15", got)
	}
}

func TestIsDev(t *testing.T) {
	Env = map[string]string{"APP_ENV": "dev"}
	defer func() { Env = nil }()

	if !IsDev() {
		t.Fatal("IsDev() = false with APP_ENV=dev")
	}

	Env = map[string]string{"APP_ENV": "prod"}
	if IsDev() {
		t.Fatal("IsDev() = true with APP_ENV=prod")
	}
}
