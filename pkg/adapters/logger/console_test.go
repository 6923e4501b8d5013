package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/vidpump/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var out, errw bytes.Buffer
	l := NewConsoleWriter(ports.LevelInfo, &out, &errw)

	l.Debug("hidden detail")
	l.Info("transcode started")
	l.Warn("slow sink")
	l.Error("it broke")

	if strings.Contains(out.String(), "hidden detail") {
		t.Error("debug line emitted below configured level")
	}
	if !strings.Contains(out.String(), "transcode started") {
		t.Error("info line missing from stdout")
	}
	if !strings.Contains(errw.String(), "slow sink") || !strings.Contains(errw.String(), "it broke") {
		t.Error("warn/error lines missing from stderr")
	}
	if strings.Contains(out.String(), "slow sink") {
		t.Error("warning leaked to stdout")
	}
}

func TestConsoleLogger_Quiet(t *testing.T) {
	var out, errw bytes.Buffer
	l := NewConsoleWriter(ports.LevelQuiet, &out, &errw)

	l.Error("still hidden")
	if out.Len() != 0 || errw.Len() != 0 {
		t.Error("quiet level emitted output")
	}
}

func TestConsoleLogger_ComponentPrefix(t *testing.T) {
	var out, errw bytes.Buffer
	l := NewConsoleWriter(ports.LevelDebug, &out, &errw).WithComponent("mp4mux")

	l.Info("opened")
	if !strings.Contains(out.String(), "[mp4mux]") {
		t.Errorf("component prefix missing: %q", out.String())
	}
}

func TestConsoleLogger_Formatting(t *testing.T) {
	var out, errw bytes.Buffer
	l := NewConsoleWriter(ports.LevelDebug, &out, &errw)

	l.Info("Progress: %d/%d frames", 5, 10)
	if !strings.Contains(out.String(), "5/10") {
		t.Errorf("format arguments not applied: %q", out.String())
	}
}
