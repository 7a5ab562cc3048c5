package integration

import (
	"context"
	"io"
	"testing"

	"alnmodel/internal/app"
)

func TestCanceledRunExits130(t *testing.T) {
	f := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := app.RunContext(ctx, []string{"score", "-r", f.ref, f.sam}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
