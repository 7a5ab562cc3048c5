// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"alnmodel/internal/config"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func mustParse(t *testing.T, cmd string, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), cmd, args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestTrainOK(t *testing.T) {
	o := mustParse(t, CmdTrain,
		"--reference", "tx.fa",
		"--model-out", "m.json",
		"--alignments", "a.bam", "b.sam",
	)
	if o.ModelOut != "m.json" || len(o.Alignments) != 2 || o.Alignments[1] != "b.sam" {
		t.Errorf("bad train parse %+v", o)
	}
	if o.Settings != config.Defaults() {
		t.Errorf("want default settings, got %+v", o.Settings)
	}
	if o.LogLevel != slog.LevelWarn {
		t.Errorf("default log level %v", o.LogLevel)
	}
}

func TestScoreOK(t *testing.T) {
	o := mustParse(t, CmdScore,
		"-r", "tx.fa", "-r", "more.fa",
		"-o", "jsonl", "--no-header", "--model", "m.json",
		"-t", "3", "--log-level", "debug",
		"-",
	)
	if len(o.References) != 2 || o.Output != "jsonl" || o.Header || o.ModelIn != "m.json" {
		t.Errorf("bad score parse %+v", o)
	}
	if o.Settings.Threads != 3 || o.LogLevel != slog.LevelDebug {
		t.Errorf("bad settings %+v level %v", o.Settings, o.LogLevel)
	}
	if len(o.Alignments) != 1 || o.Alignments[0] != "-" {
		t.Errorf("stdin positional lost: %v", o.Alignments)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name string
		cmd  string
		args []string
	}{
		{"no reference", CmdScore, []string{"a.bam"}},
		{"no alignments", CmdScore, []string{"-r", "tx.fa"}},
		{"no model-out", CmdTrain, []string{"-r", "tx.fa", "a.bam"}},
		{"bad output", CmdScore, []string{"-r", "tx.fa", "-o", "xml", "a.bam"}},
		{"bad alpha", CmdScore, []string{"-r", "tx.fa", "--alpha", "-1", "a.bam"}},
		{"bad bins", CmdTrain, []string{"-r", "tx.fa", "--model-out", "m", "--bins", "0", "a.bam"}},
		{"bad passes", CmdTrain, []string{"-r", "tx.fa", "--model-out", "m", "--passes", "0", "a.bam"}},
		{"bad level", CmdScore, []string{"-r", "tx.fa", "--log-level", "loud", "a.bam"}},
		{"score has no passes", CmdScore, []string{"-r", "tx.fa", "--passes", "2", "a.bam"}},
		{"unmatched glob", CmdScore, []string{"-r", "tx.fa", filepath.Join(t.TempDir(), "*.bam")}},
	}
	for _, c := range cases {
		if _, err := ParseArgs(newFS(), c.cmd, c.args); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestHelpAndVersion(t *testing.T) {
	if _, err := ParseArgs(newFS(), CmdScore, []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want ErrHelp, got %v", err)
	}
	o, err := ParseArgs(newFS(), CmdTrain, []string{"--version"})
	if err != nil || !o.Version {
		t.Fatalf("version: %v %+v", err, o)
	}
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "m.yaml")
	if err := os.WriteFile(cfg, []byte("alpha: 0.5\nbins: 6\nthreads: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	o := mustParse(t, CmdTrain,
		"--config", cfg, "--bins", "3",
		"-r", "tx.fa", "--model-out", "m.json", "a.bam",
	)
	if o.Settings.Alpha != 0.5 || o.Settings.Threads != 2 {
		t.Errorf("file values lost: %+v", o.Settings)
	}
	if o.Settings.Bins != 3 {
		t.Errorf("flag should override file, got bins=%d", o.Settings.Bins)
	}
	if got := o.ModelFlagsGiven(); len(got) != 1 || got[0] != "--bins" {
		t.Errorf("ModelFlagsGiven = %v", got)
	}
}

func TestConfigFileInvalid(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "m.yaml")
	if err := os.WriteFile(cfg, []byte("bins: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ParseArgs(newFS(), CmdScore, []string{"--config", cfg, "-r", "tx.fa", "a.bam"})
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("want config.ErrInvalid, got %v", err)
	}
}
