// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package snptools

import (
	"context"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
)

// GenotypeOpts configures Genotype.
type GenotypeOpts struct {
	// Samples to genotype. Each must be distinct and select at least one
	// path in BAMList.
	Samples []string
	// BAMList is a file with one BAM path per line, covering all samples.
	BAMList string
	// OutDir receives all outputs. Empty means the current directory.
	OutDir string
	// Prefix names the rawlist, .prob and .vcf.gz outputs.
	Prefix string
	// Chrom is the chromosome passed to prob2vcf.
	Chrom string
	// Parallelism bounds the number of concurrent bamodel runs. Zero means
	// runtime.NumCPU().
	Parallelism int
	Verbose     bool
}

// Genotype runs the whole pipeline: bamodel for every sample, poprob over the
// resulting raw files, and prob2vcf. It returns the path of the compressed
// VCF. The raw files are listed, in sample order, in
// "<OutDir>/<Prefix>.rawlist". Outputs of stages that ran before a failure are
// left in place. Duplicate samples and samples without a BAM are rejected
// before any program runs.
func (s *SNPTools) Genotype(ctx context.Context, opts GenotypeOpts) (string, error) {
	if len(opts.Samples) == 0 {
		return "", errors.E(errors.Invalid, "snptools genotype: no samples")
	}
	all, err := readBAMList(ctx, opts.BAMList)
	if err != nil {
		return "", err
	}
	bams := make([][]string, len(opts.Samples))
	seen := map[string]bool{}
	for i, sample := range opts.Samples {
		if seen[sample] {
			return "", errors.E(errors.Invalid, "snptools genotype: duplicate sample", sample)
		}
		seen[sample] = true
		if bams[i] = selectBAMs(all, sample); len(bams[i]) == 0 {
			return "", errors.E(errors.Invalid, "snptools genotype: no BAM for sample", sample, "in", opts.BAMList)
		}
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	nSample := len(opts.Samples)
	if parallelism > nSample {
		parallelism = nSample
	}
	log.Printf("snptools genotype: running bamodel on %d samples (%d jobs)", nSample, parallelism)
	raws := make([]string, nSample)
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * nSample) / parallelism
		endIdx := ((jobIdx + 1) * nSample) / parallelism
		for i := startIdx; i < endIdx; i++ {
			raw, err := s.bamodel(ctx, opts.Samples[i], bams[i], opts.BAMList, opts.OutDir, opts.Verbose)
			if err != nil {
				return err
			}
			raws[i] = raw
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	rawList := outPath(opts.OutDir, opts.Prefix+".rawlist")
	if err := writeRawList(ctx, rawList, raws); err != nil {
		return "", err
	}
	log.Printf("snptools genotype: wrote %s", rawList)
	prob, err := s.Poprob(ctx, opts.Prefix, rawList, opts.OutDir, opts.Verbose)
	if err != nil {
		return "", err
	}
	log.Printf("snptools genotype: wrote %s", prob)
	vcf, err := s.Prob2VCF(ctx, prob, opts.Prefix, opts.Chrom, opts.OutDir, opts.Verbose)
	if err != nil {
		return "", err
	}
	log.Printf("snptools genotype: wrote %s", vcf)
	return vcf, nil
}

// writeRawList writes the paths, one per line, in the format poprob reads.
func writeRawList(ctx context.Context, path string, raws []string) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "snptools: create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	for _, raw := range raws {
		w.WriteString(raw)
		if err = w.EndLine(); err != nil {
			return errors.E(err, "snptools: write", path)
		}
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "snptools: write", path)
	}
	return nil
}
