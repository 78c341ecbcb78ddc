package cli

import (
	"testing"

	"github.com/studiowebux/harsample/internal/sampling"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := newZapObserver(zap.New(core))

	entries := []string{"a", "b", "c"}
	labels := map[string]string{"a": "application/json", "b": "application/json", "c": "text/css"}
	_, err := sampling.SelectSeeded(entries, func(s string) string { return labels[s] }, 3,
		sampling.Config{
			Distribution: sampling.Distribution{
				{Category: sampling.CategoryJSON, Proportion: 0.5},
				{Category: sampling.CategoryHTML, Proportion: 0.5},
				{Category: sampling.CategoryImage, Proportion: 0},
			},
			Observer: obs,
		}, 7)
	if err != nil {
		t.Fatalf("SelectSeeded() error: %v", err)
	}

	tests := []struct {
		message string
		count   int
	}{
		{message: "Category bucket", count: 1},
		{message: "No entries for category, skipping", count: 2},
		{message: "Filling deficit from remaining entries", count: 1},
		{message: "Deficit fill", count: 1},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := logs.FilterMessage(tt.message).Len(); got != tt.count {
				t.Errorf("logged %q %d times, want %d", tt.message, got, tt.count)
			}
		})
	}

	deficit := logs.FilterMessage("Filling deficit from remaining entries").All()
	if len(deficit) == 1 {
		fields := deficit[0].ContextMap()
		if fields["deficit"] != int64(1) || fields["remaining"] != int64(1) {
			t.Errorf("deficit fields = %v", fields)
		}
		if deficit[0].LoggerName != "select" {
			t.Errorf("logger name = %q, want select", deficit[0].LoggerName)
		}
	}
}
