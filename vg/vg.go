// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package vg runs sub-commands of the vg variation-graph toolkit
// (https://github.com/vgteam/vg).
//
// Each method assembles one vg invocation, runs it and returns the paths vg is
// expected to produce. Failures of vg itself are not reported: callers check
// for the outputs they need. Only Autoindex looks at the file system after the
// run, to collect whatever files were written under the output prefix.
package vg

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/biowrap/toolexec"
)

// Binary is the name of the vg executable.
const Binary = "vg"

// Opt is an extra single-letter option passed through to vg, e.g.
// {"t", "16"} for "-t 16".
type Opt struct {
	Key   string
	Value string
}

// Toolkit runs vg sub-commands. The zero value runs "vg" from $PATH. A Toolkit
// is not modified by its methods and may be shared between goroutines.
type Toolkit struct {
	// Folder is the directory containing the vg binary. Empty means $PATH.
	Folder string
	// Runner executes the commands. Nil means toolexec.Exec{}.
	Runner toolexec.Runner
	// Strict makes an extra option outside a sub-command's allowed set an
	// error. By default such options are dropped.
	Strict bool
}

var (
	giraffeOpts = []string{"H", "Z", "m", "d", "g", "t"}
	packOpts    = []string{"Q"}
)

func (t *Toolkit) runner() toolexec.Runner {
	if t.Runner == nil {
		return toolexec.Exec{}
	}
	return t.Runner
}

func (t *Toolkit) cmd(sub string, args []toolexec.Arg, stdout string) toolexec.Cmd {
	return toolexec.Cmd{
		Path:   toolexec.Resolve(t.Folder, Binary),
		Sub:    sub,
		Args:   args,
		Stdout: stdout,
	}
}

// run executes c. Errors from vg are logged and otherwise ignored.
func (t *Toolkit) run(ctx context.Context, c toolexec.Cmd, verbose bool) {
	if verbose {
		log.Printf("Command line is: %s", c)
	}
	if _, err := t.runner().Run(ctx, c); err != nil {
		log.Debug.Printf("%s: %v", c.Base(), err)
	}
}

// extraArgs converts opts to "-<key> <value>" arguments in the order given,
// keeping only keys in allowed.
func (t *Toolkit) extraArgs(sub string, allowed []string, opts []Opt) ([]toolexec.Arg, error) {
	var args []toolexec.Arg
	for _, o := range opts {
		if !contains(allowed, o.Key) {
			if t.Strict {
				return nil, errors.E(errors.Invalid, "vg", sub, "option", o.Key, "not in", strings.Join(allowed, ","))
			}
			log.Debug.Printf("vg %s: dropping unsupported option -%s", sub, o.Key)
			continue
		}
		args = append(args, toolexec.Arg{Flag: "-" + o.Key, Value: o.Value})
	}
	return args, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Autoindex runs "vg autoindex --workflow giraffe" on the reference FASTA and
// the VCF, and returns the sorted paths of all files whose names start with
// prefix once it finishes, whether or not vg succeeded.
func (t *Toolkit) Autoindex(ctx context.Context, ref, vcf, prefix string, verbose bool) ([]string, error) {
	args := []toolexec.Arg{
		{Flag: "--workflow", Value: "giraffe"},
		{Flag: "-r", Value: ref},
		{Flag: "-v", Value: vcf},
		{Flag: "-p", Value: prefix},
	}
	t.run(ctx, t.cmd("autoindex", args, ""), verbose)
	return listPrefix(ctx, prefix)
}

// listPrefix returns the entries of prefix's directory whose names start with
// the base name of prefix. Names are joined to the directory part of prefix,
// as a glob of "<prefix>*" would return them.
func listPrefix(ctx context.Context, prefix string) ([]string, error) {
	dir, base := filepath.Split(prefix)
	listDir := dir
	if listDir == "" {
		listDir = "."
	}
	var paths []string
	lister := file.List(ctx, listDir, false)
	for lister.Scan() {
		name := filepath.Base(lister.Path())
		if strings.HasPrefix(name, base) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	if err := lister.Err(); err != nil {
		if errors.Is(errors.NotExist, err) {
			return nil, nil
		}
		return nil, errors.E(err, "vg autoindex: list", listDir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Giraffe runs "vg giraffe" on one FASTQ or on a comma-separated pair, and
// returns the path of the alignment, "<prefix>.gam". Opts with keys H, Z, m,
// d, g and t are passed through as "-<key> <value>".
func (t *Toolkit) Giraffe(ctx context.Context, fastq, prefix string, verbose bool, opts ...Opt) (string, error) {
	var files []string
	for _, f := range strings.Split(fastq, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	if len(files) == 0 || len(files) > 2 {
		return "", errors.E(errors.Invalid, "vg giraffe: want one or two FASTQ files, got", fastq)
	}
	var args []toolexec.Arg
	for _, f := range files {
		args = append(args, toolexec.Arg{Flag: "-f", Value: f})
	}
	extra, err := t.extraArgs("giraffe", giraffeOpts, opts)
	if err != nil {
		return "", err
	}
	args = append(args, extra...)
	gam := prefix + ".gam"
	t.run(ctx, t.cmd("giraffe", args, gam), verbose)
	return gam, nil
}

// Stats runs "vg stats" on an alignment and returns "<aln>.stats".
func (t *Toolkit) Stats(ctx context.Context, aln string, verbose bool) (string, error) {
	stats := aln + ".stats"
	t.run(ctx, t.cmd("stats", []toolexec.Arg{{Flag: "-a", Value: aln}}, stats), verbose)
	return stats, nil
}

// Augment runs "vg augment" to embed the variation in an alignment into a
// graph. It returns the augmented graph "<prefix>.vg" and the alignment
// rewritten against it, "<prefix>.gam".
func (t *Toolkit) Augment(ctx context.Context, graph, aln, prefix string, verbose bool) (augGraph, augAln string, err error) {
	augGraph, augAln = prefix+".vg", prefix+".gam"
	args := []toolexec.Arg{
		{Value: graph},
		{Value: aln},
		{Flag: "-A", Value: augAln},
	}
	t.run(ctx, t.cmd("augment", args, augGraph), verbose)
	return augGraph, augAln, nil
}

// Pack runs "vg pack" to compute read support from an alignment and returns
// "<prefix>.pack". Opts with key Q are passed through.
func (t *Toolkit) Pack(ctx context.Context, graph, aln, prefix string, verbose bool, opts ...Opt) (string, error) {
	pack := prefix + ".pack"
	args := []toolexec.Arg{
		{Flag: "-x", Value: graph},
		{Flag: "-g", Value: aln},
		{Flag: "-o", Value: pack},
	}
	extra, err := t.extraArgs("pack", packOpts, opts)
	if err != nil {
		return "", err
	}
	args = append(args, extra...)
	t.run(ctx, t.cmd("pack", args, ""), verbose)
	return pack, nil
}

// Call runs "vg call" on a graph and its packed read support and returns the
// variant calls, "<prefix>.vcf".
func (t *Toolkit) Call(ctx context.Context, graph, pack, prefix string, verbose bool) (string, error) {
	vcf := prefix + ".vcf"
	args := []toolexec.Arg{
		{Value: graph},
		{Flag: "-k", Value: pack},
	}
	t.run(ctx, t.cmd("call", args, vcf), verbose)
	return vcf, nil
}
