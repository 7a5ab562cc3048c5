// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"alnmodel/internal/appcore"
	"alnmodel/internal/cli"
	"alnmodel/internal/cmdutil"
	"alnmodel/internal/version"
	"alnmodel/internal/writers"
)

const name = "alnmodel"

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	if len(argv) == 0 {
		cli.PrintTopUsage(outw, name)
		return flush(outw, stderr, appcore.ExitOK)
	}

	cmd, rest := argv[0], argv[1:]
	switch cmd {
	case "-h", "-help", "--help", "help":
		cli.PrintTopUsage(outw, name)
		return flush(outw, stderr, appcore.ExitOK)
	case "-v", "-version", "--version", "version":
		printVersion(outw)
		return flush(outw, stderr, appcore.ExitOK)
	case cli.CmdTrain, cli.CmdScore:
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		cli.PrintTopUsage(outw, name)
		return flush(outw, stderr, appcore.ExitUsage)
	}

	fs := cli.NewFlagSet(name + " " + cmd)
	opts, err := cli.ParseArgs(fs, cmd, rest)
	cli.InstallUsage(fs, name, cmd)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flush(outw, stderr, appcore.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, appcore.ExitUsage)
	}

	if opts.Version {
		printVersion(outw)
		return flush(outw, stderr, appcore.ExitOK)
	}

	coreOpts := appcore.Options{
		References: opts.References,
		Alignments: opts.Alignments,
		Settings:   opts.Settings,
		ModelIn:    opts.ModelIn,
		ModelOut:   opts.ModelOut,
		MetricsOut: opts.MetricsOut,
		Quiet:      opts.Quiet,
		Logger:     cmdutil.NewLogger(stderr, opts.LogLevel),
	}

	if cmd == cli.CmdTrain {
		return appcore.Train(parent, stderr, coreOpts)
	}
	if given := opts.ModelFlagsGiven(); opts.ModelIn != "" && len(given) > 0 {
		cmdutil.Warnf(stderr, opts.Quiet, "%s ignored: the model file sets them", strings.Join(given, ", "))
	}
	writer := appcore.NewScoreWriterFactory(opts.Output, opts.Header)
	return appcore.Score(parent, outw, stderr, coreOpts, writer)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "%s version %s\n", name, version.Version)
}

// flush writes out buffered stdout; a closed pipe downstream is not an error.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return appcore.ExitOK
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitRuntime
	}
	return code
}
