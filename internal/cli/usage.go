package cli

import (
	"flag"
	"fmt"
	"io"

	"alnmodel/internal/version"
)

// NewFlagSet returns a silent ContinueOnError FlagSet; callers print errors
// and install help with InstallUsage.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

func banner(out io.Writer, name string) {
	fmt.Fprintf(out, "%s – alignment error model for transcript quantification\n\n", name)
	fmt.Fprintf(out, "Version: %s\n\n", version.Version)
}

// PrintTopUsage lists the subcommands.
func PrintTopUsage(out io.Writer, name string) {
	banner(out, name)
	fmt.Fprintf(out, "Usage:\n")
	fmt.Fprintf(out, "  %s train --reference tx.fa --model-out model.json aln.bam...\n", name)
	fmt.Fprintf(out, "  %s score --reference tx.fa [--model model.json] aln.bam...\n\n", name)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  train     learn the error model from alignments")
	fmt.Fprintln(out, "  score     print the log-likelihood of every alignment")
	fmt.Fprintf(out, "\nRun '%s <command> -h' for the flags of a command.\n", name)
}

// InstallUsage sets the help text of a subcommand's FlagSet. Call after
// ParseArgs registered the flags.
func InstallUsage(fs *flag.FlagSet, name, cmd string) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		banner(out, name)
		fmt.Fprintf(out, "Usage: %s %s [flags] alignments...\n", name, cmd)

		fmt.Fprintln(out, "\nInput:")
		fmt.Fprintln(out, "  -r, --reference file        Transcript FASTA (repeatable, gzip ok) [*]")
		fmt.Fprintln(out, "  -a, --alignments file       SAM/BAM (repeatable) or '-' for STDIN; positionals too")
		if cmd == CmdScore {
			fmt.Fprintln(out, "      --model file            Trained model (JSON); default is the untrained prior")
		}

		fmt.Fprintln(out, "\nModel:")
		fmt.Fprintf(out, "      --alpha float           Pseudo-count for every transition [%s]\n", def("alpha"))
		fmt.Fprintf(out, "      --max-read-len int      Longer reads are neither scored nor trained [%s]\n", def("max-read-len"))
		fmt.Fprintf(out, "      --bins int              Position bins along the read [%s]\n", def("bins"))
		fmt.Fprintf(out, "      --disable               Disable the model; every alignment scores 0 [%s]\n", def("disable"))
		fmt.Fprintf(out, "      --train-orphans-by-side Train right orphans on the right matrices [%s]\n", def("train-orphans-by-side"))
		fmt.Fprintln(out, "      --config file           YAML settings; flags override it")

		fmt.Fprintln(out, "\nPerformance:")
		fmt.Fprintf(out, "  -t, --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))
		if cmd == CmdTrain {
			fmt.Fprintf(out, "      --passes int            Training passes over the input [%s]\n", def("passes"))
		}

		fmt.Fprintln(out, "\nOutput:")
		if cmd == CmdTrain {
			fmt.Fprintln(out, "      --model-out file        Write the trained model here (JSON) [*]")
		} else {
			fmt.Fprintf(out, "  -o, --output string         Output: tsv | jsonl [%s]\n", def("output"))
			fmt.Fprintf(out, "      --no-header             Suppress header line [%s]\n", def("no-header"))
		}
		fmt.Fprintln(out, "      --metrics-out file      Write Prometheus text metrics at exit")

		fmt.Fprintln(out, "\nMiscellaneous:")
		fmt.Fprintf(out, "      --log-level string      Diagnostics: debug | info | warn | error [%s]\n", def("log-level"))
		fmt.Fprintf(out, "  -q, --quiet                 Suppress non-essential warnings [%s]\n", def("quiet"))
		fmt.Fprintln(out, "  -v, --version               Print version and exit")
		fmt.Fprintln(out, "  -h, --help                  Show this help and exit")
	}
}
