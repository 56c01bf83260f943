package log

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	defer SetLogger(zap.NewNop())
	for _, lvl := range []string{"debug", "INFO", " warn ", "error"} {
		if err := Init(lvl, true); err != nil {
			t.Errorf("Init(%q): %v", lvl, err)
		}
	}
	if err := Init("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	Debug("hidden")
	Info("Toolbox:raster loaded", zap.Int("bands", 3))
	Error("Toolbox:open failed", zap.String("tif", "a.tif"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "Toolbox:raster loaded" || entries[0].ContextMap()["bands"] != int64(3) {
		t.Errorf("unexpected entry %+v", entries[0])
	}
	if entries[1].Level != zapcore.ErrorLevel {
		t.Errorf("expected error level, got %v", entries[1].Level)
	}
}
