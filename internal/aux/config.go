// If you are AI: this file implements the aux pipeline's own on-disk
// config file, a loosely-validated key=value format distinct from the
// daemon's strict YAML config.
package aux

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds the aux pipeline's tuning knobs. The zero value is not the
// file format's defaults (on_variation_capture and max_sampling_fps
// differ); use DefaultConfig for those.
type Config struct {
	StreamPort             int
	StreamOnMovieDetection bool
	OnVariationCapture     bool
	MaxSamplingFPS         int
	AudioSyncNot           bool
}

// DefaultConfig returns the values used when the config file is absent
// or a key is missing from it: stream_port 0, stream_onMovieDetection
// false, on_variation_capture true, max_sampling_fps 30, audio_sync_not
// false.
func DefaultConfig() Config {
	return Config{
		StreamPort:             0,
		StreamOnMovieDetection: false,
		OnVariationCapture:     true,
		MaxSamplingFPS:         30,
		AudioSyncNot:           false,
	}
}

// LoadConfig reads an aux config file at path: one "key=value" pair per
// line, both sides trimmed of whitespace, blank lines and lines that
// don't parse as key=value ignored, unknown keys ignored. A missing file
// is not an error: it is created with DefaultConfig()'s values written
// out, matching the format parseConfig reads back, and DefaultConfig()
// is returned. A failure to write that file is logged and otherwise
// ignored; the caller still gets DefaultConfig().
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if werr := writeDefaultConfig(path, cfg); werr != nil {
			log.Printf("aux: write default config %s: %v", path, werr)
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return parseConfig(f)
}

// writeDefaultConfig creates path with cfg's values in the same
// key=value format parseConfig reads, one pair per line.
func writeDefaultConfig(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f,
		"stream_port=%d\nstream_onMovieDetection=%s\non_variation_capture=%s\nmax_sampling_fps=%d\naudio_sync_not=%s\n",
		cfg.StreamPort,
		formatBoolFlag(cfg.StreamOnMovieDetection),
		formatBoolFlag(cfg.OnVariationCapture),
		cfg.MaxSamplingFPS,
		formatBoolFlag(cfg.AudioSyncNot),
	)
	return err
}

// parseConfig applies r's key=value lines on top of DefaultConfig().
func parseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "stream_port":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.StreamPort = n
			}
		case "stream_onMovieDetection":
			cfg.StreamOnMovieDetection = parseBoolFlag(value)
		case "on_variation_capture":
			cfg.OnVariationCapture = parseBoolFlag(value)
		case "max_sampling_fps":
			if n, err := strconv.Atoi(value); err == nil {
				cfg.MaxSamplingFPS = n
			}
		case "audio_sync_not":
			cfg.AudioSyncNot = parseBoolFlag(value)
		}
		// Unknown keys are ignored, per the file format's own tolerance.
	}
	if err := scanner.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseBoolFlag treats "1" and "true" (case-insensitive) as true and
// everything else as false.
func parseBoolFlag(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}

// formatBoolFlag renders a bool in the same "1"/"0" form parseBoolFlag
// accepts.
func formatBoolFlag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}
