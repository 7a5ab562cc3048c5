// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"alnmodel/internal/cliutil"
	"alnmodel/internal/config"
	"alnmodel/internal/writers"
)

// Subcommands
const (
	CmdTrain = "train"
	CmdScore = "score"
)

// Options holds all CLI flags and arguments of one subcommand.
type Options struct {
	Command string

	// Input
	References []string
	Alignments []string
	ModelIn    string

	// Output
	ModelOut   string
	Output     string
	Header     bool // true unless --no-header
	MetricsOut string

	// Model and run settings (file defaults, then flags)
	ConfigFile string
	Settings   config.Settings
	// Explicit lists the settings flags given on the command line.
	Explicit map[string]bool

	// Misc
	Quiet    bool
	LogLevel slog.Level
	Version  bool
}

// settingsFlags are the flags that override a --config file.
var settingsFlags = []string{"alpha", "max-read-len", "bins", "threads", "t", "passes", "disable", "train-orphans-by-side"}

// ParseArgs registers the flags of cmd on fs, parses argv and validates.
// Alignment files may also be given as positionals (globs are expanded).
func ParseArgs(fs *flag.FlagSet, cmd string, argv []string) (Options, error) {
	opt := Options{Command: cmd}
	var help bool
	def := config.Defaults()
	s := def

	// Input
	refs := &sliceValue{dst: &opt.References}
	fs.Var(refs, "reference", "transcript FASTA file(s) (repeatable, gzip ok) [*]")
	fs.Var(refs, "r", "alias of --reference")
	alns := &sliceValue{dst: &opt.Alignments}
	fs.Var(alns, "alignments", "SAM/BAM file(s) (repeatable or '-') [*]")
	fs.Var(alns, "a", "alias of --alignments")

	// Model
	fs.Float64Var(&s.Alpha, "alpha", def.Alpha, fmt.Sprintf("pseudo-count for every transition [%g]", def.Alpha))
	fs.IntVar(&s.MaxReadLen, "max-read-len", def.MaxReadLen, fmt.Sprintf("longer reads are neither scored nor trained [%d]", def.MaxReadLen))
	fs.IntVar(&s.Bins, "bins", def.Bins, fmt.Sprintf("position bins along the read [%d]", def.Bins))
	fs.BoolVar(&s.Disable, "disable", false, "disable the model (every alignment scores 0) [false]")
	fs.BoolVar(&s.TrainOrphansBySide, "train-orphans-by-side", false, "train right orphans on the right matrices [false]")
	fs.StringVar(&opt.ConfigFile, "config", "", "YAML settings file; flags override it")

	// Performance
	fs.IntVar(&s.Threads, "threads", 0, "worker threads (0=all CPUs) [0]")
	fs.IntVar(&s.Threads, "t", 0, "alias of --threads")

	switch cmd {
	case CmdTrain:
		fs.StringVar(&opt.ModelOut, "model-out", "", "write the trained model here (JSON) [*]")
		fs.IntVar(&s.Passes, "passes", def.Passes, fmt.Sprintf("training passes over the input [%d]", def.Passes))
	case CmdScore:
		fs.StringVar(&opt.ModelIn, "model", "", "trained model (JSON); default is the untrained prior")
		fs.StringVar(&opt.Output, "output", writers.FormatTSV, "output: tsv | jsonl [tsv]")
		fs.StringVar(&opt.Output, "o", writers.FormatTSV, "alias of --output")
	}
	noHeader := false
	if cmd == CmdScore {
		fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")
	}

	// Misc
	fs.StringVar(&opt.MetricsOut, "metrics-out", "", "write Prometheus text metrics here at exit")
	logLevel := "warn"
	fs.StringVar(&logLevel, "log-level", logLevel, "diagnostics level: debug | info | warn | error [warn]")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Header = !noHeader
	posArgs = append(posArgs, fs.Args()...)
	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return opt, err
		}
		opt.Alignments = append(opt.Alignments, exp...)
	}

	opt.Explicit = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opt.Explicit[f.Name] = true })
	if opt.ConfigFile != "" {
		base, err := config.Load(opt.ConfigFile, def)
		if err != nil {
			return opt, err
		}
		s = overlay(base, s, opt.Explicit)
	}
	opt.Settings = s

	if err := opt.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return opt, fmt.Errorf("invalid --log-level %q", logLevel)
	}
	return opt, validate(&opt)
}

// overlay applies the explicitly given flag values in s onto base.
func overlay(base, s config.Settings, explicit map[string]bool) config.Settings {
	for _, name := range settingsFlags {
		if !explicit[name] {
			continue
		}
		switch name {
		case "alpha":
			base.Alpha = s.Alpha
		case "max-read-len":
			base.MaxReadLen = s.MaxReadLen
		case "bins":
			base.Bins = s.Bins
		case "threads", "t":
			base.Threads = s.Threads
		case "passes":
			base.Passes = s.Passes
		case "disable":
			base.Disable = s.Disable
		case "train-orphans-by-side":
			base.TrainOrphansBySide = s.TrainOrphansBySide
		}
	}
	return base
}

func validate(o *Options) error {
	if len(o.References) == 0 {
		return errors.New("at least one --reference file is required")
	}
	if len(o.Alignments) == 0 {
		return errors.New("at least one alignment file is required")
	}
	switch o.Command {
	case CmdTrain:
		if o.ModelOut == "" {
			return errors.New("train needs --model-out")
		}
	case CmdScore:
		if !writers.ValidFormat(o.Output) {
			return fmt.Errorf("invalid --output %q", o.Output)
		}
	}
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	return nil
}

// ModelFlagsGiven lists the model-shape flags set on the command line; they
// have no effect when a trained model is loaded.
func (o Options) ModelFlagsGiven() []string {
	var out []string
	for _, name := range []string{"alpha", "max-read-len", "bins"} {
		if o.Explicit[name] {
			out = append(out, "--"+name)
		}
	}
	return out
}

// sliceValue appends each value to a *[]string.
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return strings.Join(*s.dst, ",")
}

func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}
