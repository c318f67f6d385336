package util

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("T_STR", "hello")
	t.Setenv("T_NUM", "0.25")
	t.Setenv("T_INT", "7")
	t.Setenv("T_BAD_INT", "seven")
	t.Setenv("T_BOOL", "true")
	t.Setenv("T_BAD_BOOL", "yes")
	t.Setenv("T_DUR", "250ms")
	t.Setenv("T_SECS", "2")

	if got := GetEnv("T_STR"); got != "hello" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("T_UNSET"); got != "" {
		t.Fatalf("GetEnv unset = %q", got)
	}
	if got := GetEnvString("T_UNSET", "dflt"); got != "dflt" {
		t.Fatalf("GetEnvString = %q", got)
	}
	if got := GetEnvNumeric("T_NUM", 1); got != 0.25 {
		t.Fatalf("GetEnvNumeric = %v", got)
	}
	if got := GetEnvInt("T_INT", 1); got != 7 {
		t.Fatalf("GetEnvInt = %v", got)
	}
	if got := GetEnvInt("T_BAD_INT", 3); got != 3 {
		t.Fatalf("GetEnvInt fallback = %v", got)
	}
	if !GetEnvBool("T_BOOL", false) {
		t.Fatal("GetEnvBool = false")
	}
	if GetEnvBool("T_BAD_BOOL", false) {
		t.Fatal("GetEnvBool should fall back on unknown values")
	}
	if got := GetEnvDuration("T_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("T_SECS", time.Second); got != 2*time.Second {
		t.Fatalf("GetEnvDuration seconds = %v", got)
	}
	if got := GetEnvDuration("T_UNSET", time.Minute); got != time.Minute {
		t.Fatalf("GetEnvDuration default = %v", got)
	}
}
