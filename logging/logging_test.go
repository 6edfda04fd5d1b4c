package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_Levels(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name           string
		verbose, quiet bool
		debug, info    bool
	}{
		{"default", false, false, false, true},
		{"verbose", true, false, true, true},
		{"quiet", false, true, false, false},
		{"quiet wins", true, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Setup(tt.verbose, tt.quiet)
			h := slog.Default().Handler()
			assert.Equal(t, tt.debug, h.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.info, h.Enabled(ctx, slog.LevelInfo))
			assert.True(t, h.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestSetupWriter(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, false, false)
	slog.Info("loaded csv", "rows", 3)
	assert.Contains(t, buf.String(), "msg=\"loaded csv\" rows=3")
}
