package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holmesv3/nitf-viz/internal/nitftest"
)

func writeFixture(t *testing.T, dir, name string, f nitftest.File) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, nitftest.Build(f), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mono(n int) nitftest.File {
	var f nitftest.File
	for i := 0; i < n; i++ {
		f.Images = append(f.Images, nitftest.MonoImage(8, 8, func(r, c int) uint8 { return uint8(r + c) }))
	}
	return f
}

func malformedSICD() nitftest.File {
	return nitftest.File{
		Images: nitftest.SplitRows("RE32F_IM32F", 16, 8, 8, nitftest.Ramp),
		DES:    []nitftest.DES{{ID: "XML_DATA_CONTENT", Data: []byte("<SICD>")}},
	}
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	single := writeFixture(t, in, "single.ntf", mono(1))
	multi := writeFixture(t, in, "multi.ntf", mono(2))
	broken := writeFixture(t, in, "broken.ntf", malformedSICD())

	tests := []struct {
		name      string
		args      func(out string) []string
		wantCode  int
		wantFiles []string
		wantErr   string
	}{
		{
			name:      "single segment",
			args:      func(out string) []string { return []string{"-o", out, "-s", "32", single} },
			wantFiles: []string{"single_32.png"},
		},
		{
			name:      "prefix",
			args:      func(out string) []string { return []string{"--output", out, "--prefix", "view", multi} },
			wantFiles: []string{"view_256.gif"},
		},
		{
			name:      "several inputs",
			args:      func(out string) []string { return []string{"-o", out, "--workers", "1", single, multi} },
			wantFiles: []string{"multi_256.gif", "single_256.png"},
		},
		{
			name:      "malformed metadata degrades",
			args:      func(out string) []string { return []string{"-o", out, broken} },
			wantFiles: []string{"broken_256.gif"},
		},
		{
			name:     "strict metadata",
			args:     func(out string) []string { return []string{"-o", out, "--strict-metadata", broken} },
			wantCode: 1,
			wantErr:  "invalid SICD metadata",
		},
		{
			name:     "missing input",
			args:     func(out string) []string { return []string{"-o", out, filepath.Join(in, "nope.ntf")} },
			wantCode: 1,
			wantErr:  "nope.ntf",
		},
		{
			name:     "no inputs",
			args:     func(out string) []string { return []string{"-o", out} },
			wantCode: 2,
			wantErr:  "no input files",
		},
		{
			name:     "bad size",
			args:     func(out string) []string { return []string{"-o", out, "-s", "0", single} },
			wantCode: 2,
			wantErr:  "--size",
		},
		{
			name:     "prefix with several inputs",
			args:     func(out string) []string { return []string{"-o", out, "-p", "x", single, multi} },
			wantCode: 2,
			wantErr:  "--prefix",
		},
		{
			name:     "bad level",
			args:     func(out string) []string { return []string{"-o", out, "--level", "loud", single} },
			wantCode: 2,
			wantErr:  "unknown log level",
		},
		{
			name:     "unknown flag",
			args:     func(out string) []string { return []string{"--colour", single} },
			wantCode: 2,
		},
		{
			name: "help",
			args: func(out string) []string { return []string{"--help"} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out")
			var stderr bytes.Buffer
			code := run(tt.args(out), &stderr)
			if code != tt.wantCode {
				t.Fatalf("run() = %d, want %d; stderr:\n%s", code, tt.wantCode, stderr.String())
			}
			if tt.wantErr != "" && !strings.Contains(stderr.String(), tt.wantErr) {
				t.Errorf("stderr does not mention %q:\n%s", tt.wantErr, stderr.String())
			}

			var got []string
			entries, _ := os.ReadDir(out)
			for _, e := range entries {
				got = append(got, e.Name())
			}
			if strings.Join(got, ",") != strings.Join(tt.wantFiles, ",") {
				t.Errorf("output files = %v, want %v", got, tt.wantFiles)
			}
		})
	}
}

func TestRunNITFLog(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "scene.ntf", mono(1))
	for _, tt := range []struct {
		args    []string
		header  bool
		segment bool
	}{
		{[]string{"--nitf-log"}, true, false},
		{[]string{"--level", "debug", "--nitf-log"}, true, true},
		{[]string{"--level", "trace", "--nitf-log"}, true, true},
		{[]string{"--level", "warn", "--nitf-log"}, false, false},
		{[]string{"--level", "debug"}, false, false},
		{[]string{"--level", "trace"}, false, false},
	} {
		var stderr bytes.Buffer
		args := append(tt.args, "-o", t.TempDir(), path)
		if code := run(args, &stderr); code != 0 {
			t.Fatalf("run(%v) = %d:\n%s", args, code, stderr.String())
		}
		out := stderr.String()
		header := strings.Contains(out, "level=INFO msg=\"file header\"") && strings.Contains(out, "component=parser")
		segment := strings.Contains(out, "level=DEBUG msg=\"image segment\"")
		if header != tt.header || segment != tt.segment {
			t.Errorf("run(%v) parser header logged = %v, segment logged = %v, want %v, %v:\n%s",
				tt.args, header, segment, tt.header, tt.segment, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level slog.Level
		off   bool
		ok    bool
	}{
		{"off", 0, true, true},
		{"error", slog.LevelError, false, true},
		{"WARN", slog.LevelWarn, false, true},
		{"info", slog.LevelInfo, false, true},
		{"debug", slog.LevelDebug, false, true},
		{"trace", LevelTrace, false, true},
		{"verbose", 0, false, false},
	}
	for _, tt := range tests {
		level, off, err := parseLevel(tt.in)
		if (err == nil) != tt.ok || level != tt.level || off != tt.off {
			t.Errorf("parseLevel(%q) = %v, %v, %v", tt.in, level, off, err)
		}
	}
}

func TestLoggerOff(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "off")
	if err != nil {
		t.Fatal(err)
	}
	l.Error("should not appear")
	if buf.Len() != 0 {
		t.Errorf("off logger wrote %q", buf.String())
	}
}

func TestParserLogger(t *testing.T) {
	var buf bytes.Buffer
	l, _ := newLogger(&buf, "info")
	pl := parserLogger(l)
	pl.Debug("hidden")
	pl.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record passed an info-level handler:\n%s", out)
	}
	if !strings.Contains(out, "level=INFO msg=shown component=parser") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
