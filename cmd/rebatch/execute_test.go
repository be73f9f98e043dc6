package main

import (
	"testing"

	"rebatch/internal/model"
)

func TestNewExecuteCommandFlagDefaults(t *testing.T) {
	cmd := newExecuteCommand()

	cases := map[string]string{
		"recursive":       "true",
		"extended":        "false",
		"dry-run":         "false",
		"atomic":          "false",
		"verify-hash":     "false",
		"conflict-policy": "",
		"report":          "",
		"pipeline":        "",
	}
	for name, want := range cases {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("flag %q not registered", name)
		}
		if f.DefValue != want {
			t.Errorf("flag %q default = %q, want %q", name, f.DefValue, want)
		}
	}
}

func TestStatusForReflectsFailures(t *testing.T) {
	clean := &model.ExecutionReport{Succeeded: 3}
	if got := statusFor(clean); got != model.BatchExecuted {
		t.Errorf("clean report: got %v, want %v", got, model.BatchExecuted)
	}

	partial := &model.ExecutionReport{Succeeded: 2, Failed: 1}
	if got := statusFor(partial); got != model.BatchPartial {
		t.Errorf("partial report: got %v, want %v", got, model.BatchPartial)
	}
}

func TestDefaultReportPathHasHTMLExtension(t *testing.T) {
	path := defaultReportPath()
	if len(path) < 5 || path[len(path)-5:] != ".html" {
		t.Errorf("defaultReportPath() = %q, want .html suffix", path)
	}
}
