// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package toolexec builds and runs invocations of external command-line
// tools. Commands are assembled from ordered flag/value pairs and executed
// from an argument vector, never through a shell; standard output can be
// redirected into a file.
package toolexec
