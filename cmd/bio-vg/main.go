// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

// See doc.go for documentation.

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/biowrap/vg"
	"v.io/x/lib/cmdline"
)

// toolkitFlags are shared by all subcommands.
type toolkitFlags struct {
	folder  *string
	strict  *bool
	verbose *bool
}

func addToolkitFlags(fs *flag.FlagSet) toolkitFlags {
	return toolkitFlags{
		folder:  fs.String("vg-folder", "", "Directory containing the vg binary. By default vg is looked up in $PATH"),
		strict:  fs.Bool("strict", false, "Fail on -opt keys the subcommand does not support, instead of dropping them"),
		verbose: fs.Bool("verbose", false, "Log the vg command line before running it"),
	}
}

func (f toolkitFlags) toolkit() *vg.Toolkit {
	return &vg.Toolkit{Folder: *f.folder, Strict: *f.strict}
}

func printPaths(w io.Writer, paths ...string) error {
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

func newCmdAutoindex() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "autoindex",
		Short:    "Build the giraffe indexes of a reference and a VCF",
		ArgsName: "ref.fa vcf prefix",
		Long: `
Runs "vg autoindex --workflow giraffe" and prints every file whose name starts
with prefix afterwards.`,
	}
	flags := addToolkitFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("autoindex takes ref.fa vcf prefix, but got %v", argv)
		}
		paths, err := flags.toolkit().Autoindex(context.Background(), argv[0], argv[1], argv[2], *flags.verbose)
		if err != nil {
			return err
		}
		return printPaths(env.Stdout, paths...)
	})
	return cmd
}

func newCmdGiraffe() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "giraffe",
		Short:    "Align reads to a graph",
		ArgsName: "fastq prefix",
		ArgsLong: `
fastq is a FASTQ path or two comma-separated paths for paired reads.
The alignment is written to <prefix>.gam.`,
	}
	flags := addToolkitFlags(&cmd.Flags)
	var opts optsFlag
	cmd.Flags.Var(&opts, "opt", `Extra vg giraffe option as KEY=VALUE, e.g. "-opt Z=x.giraffe.gbz".
May be repeated. Supported keys are H, Z, m, d, g and t.`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("giraffe takes fastq prefix, but got %v", argv)
		}
		gam, err := flags.toolkit().Giraffe(context.Background(), argv[0], argv[1], *flags.verbose, opts...)
		if err != nil {
			return err
		}
		return printPaths(env.Stdout, gam)
	})
	return cmd
}

func newCmdStats() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "stats",
		Short:    "Compute alignment statistics into <aln>.stats",
		ArgsName: "aln",
	}
	flags := addToolkitFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("stats takes one alignment argument, but got %v", argv)
		}
		stats, err := flags.toolkit().Stats(context.Background(), argv[0], *flags.verbose)
		if err != nil {
			return err
		}
		return printPaths(env.Stdout, stats)
	})
	return cmd
}

func newCmdAugment() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "augment",
		Short:    "Augment a graph with the variation in an alignment",
		ArgsName: "graph aln prefix",
		ArgsLong: "The outputs are <prefix>.vg and <prefix>.gam.",
	}
	flags := addToolkitFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("augment takes graph aln prefix, but got %v", argv)
		}
		augGraph, augAln, err := flags.toolkit().Augment(context.Background(), argv[0], argv[1], argv[2], *flags.verbose)
		if err != nil {
			return err
		}
		return printPaths(env.Stdout, augGraph, augAln)
	})
	return cmd
}

func newCmdPack() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "pack",
		Short:    "Compute read support into <prefix>.pack",
		ArgsName: "graph aln prefix",
	}
	flags := addToolkitFlags(&cmd.Flags)
	var opts optsFlag
	cmd.Flags.Var(&opts, "opt", `Extra vg pack option as KEY=VALUE, e.g. "-opt Q=5".
May be repeated. The only supported key is Q.`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("pack takes graph aln prefix, but got %v", argv)
		}
		pack, err := flags.toolkit().Pack(context.Background(), argv[0], argv[1], argv[2], *flags.verbose, opts...)
		if err != nil {
			return err
		}
		return printPaths(env.Stdout, pack)
	})
	return cmd
}

func newCmdCall() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "call",
		Short:    "Call variants from packed read support into <prefix>.vcf",
		ArgsName: "graph pack prefix",
	}
	flags := addToolkitFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("call takes graph pack prefix, but got %v", argv)
		}
		vcf, err := flags.toolkit().Call(context.Background(), argv[0], argv[1], argv[2], *flags.verbose)
		if err != nil {
			return err
		}
		return printPaths(env.Stdout, vcf)
	})
	return cmd
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-vg",
			Short:    "Run vg variation-graph toolkit subcommands",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdAutoindex(),
				newCmdGiraffe(),
				newCmdStats(),
				newCmdAugment(),
				newCmdPack(),
				newCmdCall(),
			},
		})
}
