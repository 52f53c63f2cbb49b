package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLog_Disabled(t *testing.T) {
	SetEnabled(false)
	var buf bytes.Buffer
	SetOutput(&buf)

	Log("hello %d", 1)
	LogTiming("op", time.Millisecond)
	LogEnterExit("fn")()

	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}
}

func TestLog_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	var buf bytes.Buffer
	SetOutput(&buf)

	Log("loaded %d nodes", 3)
	LogTiming("render", 2*time.Millisecond)
	LogEnterExit("refresh")()

	out := buf.String()
	for _, want := range []string{"[SN_DEBUG]", "loaded 3 nodes", "render took", "-> refresh", "<- refresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
	if !Enabled() {
		t.Error("expected Enabled() to report true")
	}
}
