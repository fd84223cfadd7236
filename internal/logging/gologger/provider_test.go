package gologger

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	glog "github.com/goliatone/go-logger/glog"
)

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
		Focus:  []string{" ", "autosave"},
		Fields: map[string]any{"site": "harbor-relief"},
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("sitewidgets.autosave")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	logger.Debug("adapter.initialised")
}

func TestFocusModulesQualifiesShortNames(t *testing.T) {
	got := FocusModules([]string{"autosave", " sitewidgets.commands.widgets ", "", "autosave.", "sitewidgets"})
	want := []string{"sitewidgets.autosave", "sitewidgets.commands.widgets", "sitewidgets"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("focus mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderWithoutRootIsQuiet(t *testing.T) {
	var p *Provider
	if logger := p.GetLogger("sitewidgets.editor"); logger == nil {
		t.Fatal("expected no-op logger")
	}
}

func TestAdapterClonesFieldsAndPropagatesContext(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	fields := map[string]any{"widget_type": "hero_banner"}
	adapted.(*adapter).WithFields(fields).Info("info")
	fields["widget_type"] = "menu"

	if len(stub.fields) != 1 || stub.fields[0]["widget_type"] != "hero_banner" {
		t.Fatalf("expected cloned fields, got %v", stub.fields)
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
	if len(stub.calls) != 1 || stub.calls[0] != "info" {
		t.Fatalf("unexpected calls %v", stub.calls)
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
