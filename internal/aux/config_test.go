package aux

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.conf"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg != want {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadConfigMissingFileWritesDefaultsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.conf")
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	defer f.Close()

	cfg, err := parseConfig(f)
	if err != nil {
		t.Fatalf("parseConfig(written file): %v", err)
	}
	if want := DefaultConfig(); cfg != want {
		t.Errorf("written file parses to %+v, want defaults %+v", cfg, want)
	}
}

func TestParseConfigOverridesKnownKeys(t *testing.T) {
	text := `
stream_port = 5901
stream_onMovieDetection=true
on_variation_capture = false
max_sampling_fps=15
audio_sync_not=1
# a comment line without an equals sign is ignored
unknown_key=surprise
`
	cfg, err := parseConfig(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	want := Config{
		StreamPort:             5901,
		StreamOnMovieDetection: true,
		OnVariationCapture:     false,
		MaxSamplingFPS:         15,
		AudioSyncNot:           true,
	}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestParseConfigIgnoresUnparseableLines(t *testing.T) {
	text := "max_sampling_fps=not-a-number\nstream_port=100\n"
	cfg, err := parseConfig(strings.NewReader(text))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.MaxSamplingFPS != DefaultConfig().MaxSamplingFPS {
		t.Errorf("got %d, want default preserved on unparseable value", cfg.MaxSamplingFPS)
	}
	if cfg.StreamPort != 100 {
		t.Errorf("got %d, want 100", cfg.StreamPort)
	}
}

func TestParseBoolFlag(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "TRUE": true, "True": true,
		"0": false, "false": false, "": false, "yes": false,
	}
	for in, want := range cases {
		if got := parseBoolFlag(in); got != want {
			t.Errorf("parseBoolFlag(%q) = %v, want %v", in, got, want)
		}
	}
}
