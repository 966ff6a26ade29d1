// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
bio-vg runs subcommands of the vg variation-graph toolkit and prints the paths
of the files they are expected to produce, one per line.

Sample usage:
bio-vg autoindex -vg-folder /opt/vg/bin ref.fa sites.vcf.gz idx/ref
bio-vg giraffe -opt Z=idx/ref.giraffe.gbz -opt m=idx/ref.min -opt d=idx/ref.dist \
    -opt t=16 r1.fq.gz,r2.fq.gz NA12878
bio-vg pack -opt Q=5 idx/ref.giraffe.gbz NA12878.gam NA12878
bio-vg call idx/ref.giraffe.gbz NA12878.pack NA12878

Only autoindex looks at its outputs; the other subcommands print the expected
paths even if vg failed.
*/
package main
