package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureSpinner(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := spinnerOut
	spinnerOut = &buf
	t.Cleanup(func() { spinnerOut = old })
	return &buf
}

func TestSpinnerDrawsFrames(t *testing.T) {
	buf := captureSpinner(t)
	s := newSpinner("Publishing...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Publishing...") {
		t.Errorf("spinner output = %q", buf.String())
	}
	if !s.Cancelled() {
		t.Error("Stop should cancel the spinner context")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	captureSpinner(t)
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Waiting...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled with its context")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureSpinner(t)
	s := newSpinner("Stopping...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessage(t *testing.T) {
	captureSpinner(t)
	out := captureStdout(t)

	s := newSpinner("Working...")
	s.Start()
	s.StopWithSuccess("published %s", "smith")

	s = newSpinner("Working...")
	s.Start()
	s.StopWithError("failed %d times", 2)

	got := out.String()
	if !strings.Contains(got, "published smith") || !strings.Contains(got, "failed 2 times") {
		t.Errorf("stdout = %q", got)
	}
}
