// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package snptools

import (
	"bufio"
	"context"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// ReadBAMList reads a file with one BAM path per line and returns the paths
// that contain sample as a substring. Blank lines are skipped and repeated
// paths are returned once, in order of first appearance.
//
// The match is a plain substring test: sample IDs that are substrings of other
// IDs (e.g. "NA1" and "NA12") select each other's BAMs.
func ReadBAMList(ctx context.Context, path, sample string) ([]string, error) {
	all, err := readBAMList(ctx, path)
	if err != nil {
		return nil, err
	}
	return selectBAMs(all, sample), nil
}

// readBAMList returns the distinct nonempty lines of path.
func readBAMList(ctx context.Context, path string) (paths []string, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "snptools: open BAM list", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	seen := map[string]bool{}
	scanner := bufio.NewScanner(in.Reader(ctx))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "snptools: read BAM list", path)
	}
	return paths, nil
}

func selectBAMs(bams []string, sample string) []string {
	var sel []string
	for _, bam := range bams {
		if strings.Contains(bam, sample) {
			sel = append(sel, bam)
		}
	}
	return sel
}
