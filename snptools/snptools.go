// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package snptools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biowrap/toolexec"
)

// Names of the SNPTools executables.
const (
	BamodelBinary  = "bamodel"
	PoprobBinary   = "poprob"
	Prob2VCFBinary = "prob2vcf"
)

// Opts configures SNPTools.
type Opts struct {
	// Folder is the directory containing the SNPTools binaries. Empty means
	// $PATH.
	Folder string
	// Runner executes the commands. Nil means toolexec.Exec{}.
	Runner toolexec.Runner
}

// SNPTools runs the SNPTools genotype-likelihood pipeline against one VCF of
// biallelic SNP sites. It is immutable and may be shared between goroutines.
type SNPTools struct {
	vcf    string
	folder string
	runner toolexec.Runner
}

// New returns an SNPTools for the given sites VCF. It returns an
// errors.NotExist error if the VCF does not exist.
func New(ctx context.Context, vcf string, opts Opts) (*SNPTools, error) {
	if _, err := file.Stat(ctx, vcf); err != nil {
		return nil, errors.E(errors.NotExist, err, "snptools: VCF", vcf, "does not exist")
	}
	runner := opts.Runner
	if runner == nil {
		runner = toolexec.Exec{}
	}
	return &SNPTools{vcf: vcf, folder: opts.Folder, runner: runner}, nil
}

// VCF returns the sites VCF passed to New.
func (s *SNPTools) VCF() string { return s.vcf }

func outPath(outDir, name string) string {
	if outDir == "" {
		return name
	}
	return filepath.Join(outDir, name)
}

func positional(values ...string) []toolexec.Arg {
	args := make([]toolexec.Arg, len(values))
	for i, v := range values {
		args[i] = toolexec.Arg{Value: v}
	}
	return args
}

// run executes binary with the given positional arguments and checks that it
// produced out.
func (s *SNPTools) run(ctx context.Context, binary string, values []string, out string, verbose bool) error {
	c := toolexec.Cmd{
		Path: toolexec.Resolve(s.folder, binary),
		Args: positional(values...),
	}
	if verbose {
		log.Printf("Command used was: %s", c)
	}
	// The runner's error already names the command line and its stderr.
	if _, err := s.runner.Run(ctx, c); err != nil {
		return errors.E(err, fmt.Sprintf("snptools %s failed", binary))
	}
	if _, err := file.Stat(ctx, out); err != nil {
		return errors.E(errors.NotExist, err,
			fmt.Sprintf("snptools %s: %s could not be created; command used was: %s", binary, out, c))
	}
	return nil
}

// Bamodel runs "bamodel" for one sample and returns the path of its raw
// genotype-likelihood file, "<outDir>/<sample>.raw".
//
// bamList names a file listing BAM paths, one per line. Only the paths
// containing sample as a substring are used; see ReadBAMList.
func (s *SNPTools) Bamodel(ctx context.Context, sample, bamList, outDir string, verbose bool) (string, error) {
	bams, err := ReadBAMList(ctx, bamList, sample)
	if err != nil {
		return "", err
	}
	return s.bamodel(ctx, sample, bams, bamList, outDir, verbose)
}

func (s *SNPTools) bamodel(ctx context.Context, sample string, bams []string, bamList, outDir string, verbose bool) (string, error) {
	if len(bams) == 0 {
		return "", errors.E(errors.Invalid, "snptools bamodel: no BAM for sample", sample, "in", bamList)
	}
	stem := outPath(outDir, sample)
	raw := stem + ".raw"
	if err := s.run(ctx, BamodelBinary, append([]string{stem, s.vcf}, bams...), raw, verbose); err != nil {
		return "", err
	}
	return raw, nil
}

// Poprob runs "poprob" over the raw files listed in rawList, one per line, and
// returns the population genotype-probability file
// "<outDir>/<outPrefix>.prob".
func (s *SNPTools) Poprob(ctx context.Context, outPrefix, rawList, outDir string, verbose bool) (string, error) {
	prob := outPath(outDir, outPrefix+".prob")
	if err := s.run(ctx, PoprobBinary, []string{s.vcf, rawList, prob}, prob, verbose); err != nil {
		return "", err
	}
	return prob, nil
}

// Prob2VCF runs "prob2vcf" to convert a .prob file into a compressed VCF for
// chromosome chrom, and returns "<outDir>/<outPrefix>.vcf.gz".
func (s *SNPTools) Prob2VCF(ctx context.Context, prob, outPrefix, chrom, outDir string, verbose bool) (string, error) {
	vcf := outPath(outDir, outPrefix+".vcf.gz")
	if err := s.run(ctx, Prob2VCFBinary, []string{prob, vcf, chrom}, vcf, verbose); err != nil {
		return "", err
	}
	return vcf, nil
}
