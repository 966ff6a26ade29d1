// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package toolexec

import (
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Arg is one group of command-line tokens. An empty Flag denotes a positional
// argument, and an empty Value denotes a bare switch.
type Arg struct {
	Flag  string
	Value string
}

// Cmd is a single invocation of an external program.
type Cmd struct {
	// Path is the resolved program path. See Resolve.
	Path string
	// Sub is an optional sub-command token placed before Args, e.g. "giraffe".
	Sub string
	// Args are emitted in order.
	Args []Arg
	// Stdout, if nonempty, names the file that receives the program's
	// standard output.
	Stdout string
}

// Resolve returns the path of binary inside folder, or binary itself if folder
// is empty, in which case it is looked up in $PATH at execution time.
func Resolve(folder, binary string) string {
	if folder == "" {
		return binary
	}
	return filepath.Join(folder, binary)
}

// Argv returns the argument vector passed to the program, excluding the
// program path.
func (c Cmd) Argv() []string {
	argv := make([]string, 0, 1+2*len(c.Args))
	if c.Sub != "" {
		argv = append(argv, c.Sub)
	}
	for _, a := range c.Args {
		if a.Flag != "" {
			argv = append(argv, a.Flag)
		}
		if a.Value != "" {
			argv = append(argv, a.Value)
		}
	}
	return argv
}

// String renders the invocation as a shell command line, for display only.
// The program is never run through a shell.
func (c Cmd) String() string {
	s := shellquote.Join(append([]string{c.Path}, c.Argv()...)...)
	if c.Stdout != "" {
		s += " > " + shellquote.Join(c.Stdout)
	}
	return s
}

// Base returns the program name with any folder and sub-command, e.g.
// "vg giraffe". It is used to label log and error messages.
func (c Cmd) Base() string {
	name := filepath.Base(c.Path)
	if c.Sub != "" {
		name = strings.Join([]string{name, c.Sub}, " ")
	}
	return name
}
