// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package toolexec

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Result is what a finished invocation left behind.
type Result struct {
	// Stdout is the captured standard output. It is empty when Cmd.Stdout
	// redirected the output to a file.
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 if the process could not be started or was killed.
	ExitCode int
}

// Runner executes a Cmd and waits for it to finish. A non-nil error is
// returned if the program could not be run or exited with a nonzero status.
// The error names the command line and carries whatever the program wrote to
// stderr. The Result is filled in as far as possible in either case.
type Runner interface {
	Run(ctx context.Context, c Cmd) (Result, error)
}

// Exec runs commands as child processes of the current process. The zero value
// is ready to use.
type Exec struct {
	// Dir is the working directory of the child. Empty means the current
	// directory.
	Dir string
}

// Run implements Runner.
func (e Exec) Run(ctx context.Context, c Cmd) (res Result, err error) {
	res.ExitCode = -1
	cmd := exec.CommandContext(ctx, c.Path, c.Argv()...)
	cmd.Dir = e.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stderr = &stderr
	if c.Stdout == "" {
		cmd.Stdout = &stdout
	} else {
		// Relative paths are relative to the child's directory, as with a
		// shell redirection.
		path := c.Stdout
		if e.Dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(e.Dir, path)
		}
		var out file.File
		if out, err = file.Create(ctx, path); err != nil {
			return res, errors.Wrapf(err, "%s: create %s", c.Base(), path)
		}
		defer file.CloseAndReport(ctx, out, &err)
		cmd.Stdout = out.Writer(ctx)
	}
	runErr := cmd.Run()
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return res, errors.Wrapf(runErr, "%s", c)
		}
		return res, errors.Wrapf(runErr, "%s: %s", c, msg)
	}
	return res, nil
}
