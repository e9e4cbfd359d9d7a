package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first, Service: "car-rental"})
	Init(Options{Level: "debug", Output: &second})

	cars := Component("cars")
	cars.Info().Msg("hello")

	if second.Len() != 0 {
		t.Fatalf("second Init must not replace the logger")
	}

	var event map[string]any
	if err := json.Unmarshal(first.Bytes(), &event); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if event["service"] != "car-rental" {
		t.Errorf("expected service field, got %v", event["service"])
	}
	if event["component"] != "cars" {
		t.Errorf("expected component field, got %v", event["component"])
	}
	if event["message"] != "hello" {
		t.Errorf("unexpected message %v", event["message"])
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}
