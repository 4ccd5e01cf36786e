package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	testCases := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{name: "quiet", verbose: false, wantDebug: false},
		{name: "verbose", verbose: true, wantDebug: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := NewWithWriter(buf, tc.verbose)
			log.Debug().Msg("debug message")
			log.Info().Msg("info message")

			out := buf.String()
			if !strings.Contains(out, "info message") {
				t.Errorf("output %q does not contain the info message", out)
			}
			if got := strings.Contains(out, "debug message"); got != tc.wantDebug {
				t.Errorf("debug message logged = %v, want %v", got, tc.wantDebug)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf, false))

	log := FromContext(ctx)
	log.Info().Msg("test")
	if buf.Len() == 0 {
		t.Error("FromContext() did not return the logger of the context")
	}
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("FromContext(empty).GetLevel() = %v, want %v", log.GetLevel(), zerolog.Disabled)
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf, false), map[string]interface{}{
		"file":  "ledger.xlsx",
		"sheet": 0,
	})
	log.Info().Msg("reading")

	out := buf.String()
	for _, want := range []string{`"file":"ledger.xlsx"`, `"sheet":0`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %s", out, want)
		}
	}
}
