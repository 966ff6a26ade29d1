// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/grailbio/biowrap/vg"
)

// optsFlag collects repeated -opt KEY=VALUE flags in command-line order.
type optsFlag []vg.Opt

// String implements flag.Value.
func (o *optsFlag) String() string {
	parts := make([]string, len(*o))
	for i, opt := range *o {
		parts[i] = opt.Key + "=" + opt.Value
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (o *optsFlag) Set(s string) error {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return fmt.Errorf("option %q: want KEY=VALUE", s)
	}
	key := strings.TrimPrefix(s[:i], "-")
	if key == "" {
		return fmt.Errorf("option %q: empty key", s)
	}
	*o = append(*o, vg.Opt{Key: key, Value: s[i+1:]})
	return nil
}
