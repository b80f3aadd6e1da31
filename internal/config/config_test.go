package config

import "testing"

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := ParseOptions([]byte(``), "tigerc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Target != "x86_64" {
		t.Errorf("expected default target x86_64, got %q", opts.Target)
	}
	if opts.DebugDump {
		t.Error("expected debug_dump to default to false")
	}
}

func TestParseOptionsOverridesDebugDump(t *testing.T) {
	opts, err := ParseOptions([]byte("debug_dump: true\n"), "tigerc.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.DebugDump {
		t.Error("expected debug_dump: true to be honored")
	}
}

func TestParseOptionsRejectsUnsupportedTarget(t *testing.T) {
	_, err := ParseOptions([]byte("target: arm64\n"), "tigerc.yaml")
	if err == nil {
		t.Fatal("expected an error for an unsupported target")
	}
}

func TestParseOptionsRejectsMalformedYAML(t *testing.T) {
	_, err := ParseOptions([]byte("target: [unterminated\n"), "tigerc.yaml")
	if err == nil {
		t.Fatal("expected a parse error for malformed YAML")
	}
}

func TestFindOptionsReturnsEmptyWhenAbsent(t *testing.T) {
	path, err := FindOptions(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no config file to be found, got %q", path)
	}
}

func TestTrimAndHasSourceExt(t *testing.T) {
	if !HasSourceExt("foo.tig") {
		t.Error("expected .tig to be recognized")
	}
	if HasSourceExt("foo.txt") {
		t.Error(".txt should not be a recognized source extension")
	}
	if TrimSourceExt("foo.tig") != "foo" {
		t.Errorf("expected TrimSourceExt to strip .tig, got %q", TrimSourceExt("foo.tig"))
	}
	if TrimSourceExt("foo.txt") != "foo.txt" {
		t.Errorf("expected TrimSourceExt to leave an unrecognized extension untouched, got %q", TrimSourceExt("foo.txt"))
	}
}
