// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package toolexec

import (
	"context"
	"sync"
)

// Recorder is a Runner for unittests. It runs nothing; it records every Cmd
// and hands it to Hook, if set, which may create output files and choose the
// result. It is safe for concurrent use.
type Recorder struct {
	Hook func(c Cmd) (Result, error)

	mu   sync.Mutex
	cmds []Cmd
}

// Run implements the Runner interface.
func (r *Recorder) Run(ctx context.Context, c Cmd) (Result, error) {
	r.mu.Lock()
	r.cmds = append(r.cmds, c)
	r.mu.Unlock()
	if r.Hook == nil {
		return Result{}, nil
	}
	return r.Hook(c)
}

// Cmds returns the commands seen so far, in call order.
func (r *Recorder) Cmds() []Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cmd(nil), r.cmds...)
}
