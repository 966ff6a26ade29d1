// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

// See doc.go for documentation.

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/biowrap/snptools"
	"v.io/x/lib/cmdline"
)

// commonFlags are shared by all subcommands.
type commonFlags struct {
	vcf     *string
	folder  *string
	outDir  *string
	verbose *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		vcf:     fs.String("vcf", "", "VCF of biallelic SNP sites to genotype. Required"),
		folder:  fs.String("snptools-folder", "", "Directory containing the SNPTools binaries. By default they are looked up in $PATH"),
		outDir:  fs.String("outdir", "", "Directory for output files. By default the current directory"),
		verbose: fs.Bool("verbose", false, "Log each command line before running it"),
	}
}

func (f commonFlags) snpTools(ctx context.Context) (*snptools.SNPTools, error) {
	if *f.vcf == "" {
		return nil, fmt.Errorf("-vcf is required")
	}
	return snptools.New(ctx, *f.vcf, snptools.Opts{Folder: *f.folder})
}

func newCmdBamodel() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bamodel",
		Short:    "Compute raw genotype likelihoods for one sample",
		ArgsName: "sample bamlist",
		ArgsLong: `
bamlist is a file with one BAM path per line. The paths containing sample as a
substring are used. The output is <outdir>/<sample>.raw.`,
	}
	flags := addCommonFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("bamodel takes sample bamlist, but got %v", argv)
		}
		ctx := context.Background()
		s, err := flags.snpTools(ctx)
		if err != nil {
			return err
		}
		raw, err := s.Bamodel(ctx, argv[0], argv[1], *flags.outDir, *flags.verbose)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(env.Stdout, raw)
		return err
	})
	return cmd
}

func newCmdPoprob() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "poprob",
		Short:    "Compute population genotype probabilities",
		ArgsName: "prefix rawlist",
		ArgsLong: `
rawlist is a file with one .raw path per line, as written by bamodel.
The output is <outdir>/<prefix>.prob.`,
	}
	flags := addCommonFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("poprob takes prefix rawlist, but got %v", argv)
		}
		ctx := context.Background()
		s, err := flags.snpTools(ctx)
		if err != nil {
			return err
		}
		prob, err := s.Poprob(ctx, argv[0], argv[1], *flags.outDir, *flags.verbose)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(env.Stdout, prob)
		return err
	})
	return cmd
}

func newCmdProb2VCF() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "prob2vcf",
		Short:    "Convert a .prob file into a compressed VCF",
		ArgsName: "prob prefix chrom",
		ArgsLong: "The output is <outdir>/<prefix>.vcf.gz.",
	}
	flags := addCommonFlags(&cmd.Flags)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("prob2vcf takes prob prefix chrom, but got %v", argv)
		}
		ctx := context.Background()
		s, err := flags.snpTools(ctx)
		if err != nil {
			return err
		}
		vcf, err := s.Prob2VCF(ctx, argv[0], argv[1], argv[2], *flags.outDir, *flags.verbose)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(env.Stdout, vcf)
		return err
	})
	return cmd
}

func newCmdGenotype() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "genotype",
		Short:    "Run bamodel, poprob and prob2vcf for a set of samples",
		ArgsName: "bamlist prefix chrom",
	}
	flags := addCommonFlags(&cmd.Flags)
	samples := cmd.Flags.String("samples", "", "Comma-separated list of sample IDs. Required")
	parallelism := cmd.Flags.Int("parallelism", 0, "Maximum number of concurrent bamodel runs; 0 = runtime.NumCPU()")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("genotype takes bamlist prefix chrom, but got %v", argv)
		}
		var ids []string
		for _, id := range strings.Split(*samples, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return fmt.Errorf("-samples is required")
		}
		ctx := context.Background()
		s, err := flags.snpTools(ctx)
		if err != nil {
			return err
		}
		vcf, err := s.Genotype(ctx, snptools.GenotypeOpts{
			Samples:     ids,
			BAMList:     argv[0],
			OutDir:      *flags.outDir,
			Prefix:      argv[1],
			Chrom:       argv[2],
			Parallelism: *parallelism,
			Verbose:     *flags.verbose,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(env.Stdout, vcf)
		return err
	})
	return cmd
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-snptools",
			Short:    "Run the SNPTools population genotyping pipeline",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdBamodel(),
				newCmdPoprob(),
				newCmdProb2VCF(),
				newCmdGenotype(),
			},
		})
}
