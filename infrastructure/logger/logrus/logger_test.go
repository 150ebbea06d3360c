package logrus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLogger_DefaultsToInfoLevel(t *testing.T) {
	l := NewLogger(Options{Level: "not-a-level"})
	if l.log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", l.log.GetLevel())
	}
}

func TestNewLogger_ParsesLevel(t *testing.T) {
	l := NewLogger(Options{Level: "debug"})
	if l.log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", l.log.GetLevel())
	}
}

func TestLogger_EmitsFields(t *testing.T) {
	l := NewLogger(Options{Level: "debug"})
	var buf bytes.Buffer
	l.log.SetOutput(&buf)

	l.Info("stored article", map[string]interface{}{
		"url": "https://s.ru/online/news/1",
	})

	out := buf.String()
	if !strings.Contains(out, "stored article") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "https://s.ru/online/news/1") {
		t.Errorf("output missing field value: %q", out)
	}
}

func TestLogger_NilFields(t *testing.T) {
	l := NewLogger(Options{Level: "info"})
	var buf bytes.Buffer
	l.log.SetOutput(&buf)

	// must not panic with a nil field map
	l.Warn("no fields", nil)

	if !strings.Contains(buf.String(), "no fields") {
		t.Errorf("output missing message: %q", buf.String())
	}
}
