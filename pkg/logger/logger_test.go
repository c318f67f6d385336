package logger_test

import (
	"testing"

	"github.com/OFFIS-RIT/constellation/backend/pkg/logger"
	"github.com/OFFIS-RIT/constellation/backend/pkg/logger/memory"
)

func TestDispatchToAllInstances(t *testing.T) {
	a := memory.NewMemoryLogger()
	b := memory.NewMemoryLogger()
	logger.Init(a, b)
	t.Cleanup(func() { logger.Init() })

	logger.Info("[Graph] served", "topic", "go", "source", "template")
	logger.Log("plain", "k", 1)
	logger.Error("broken")

	for _, m := range []*memory.MemoryLogger{a, b} {
		entries := m.Entries()
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		if v, ok := entries[0].Value("source"); !ok || v != "template" {
			t.Fatalf("expected keyvals to be forwarded, got %v", entries[0].Keyvals)
		}
		if v, ok := entries[1].Value("k"); !ok || v != 1 {
			t.Fatalf("expected Log to forward keyvals, got %v", entries[1].Keyvals)
		}
		if len(m.Level("error")) != 1 {
			t.Fatalf("expected one error entry")
		}
	}
}

func TestUninitializedLoggerIsSilent(t *testing.T) {
	logger.Init()
	logger.Info("dropped")
	logger.Fatal("dropped")
}
