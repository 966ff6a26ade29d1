// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
Package snptools runs the SNPTools population genotyping programs
(https://www.hgsc.bcm.edu/software/snptools) on a VCF of biallelic SNP sites.

The pipeline has three stages, each a method of SNPTools:

  Bamodel   per sample: BAMs -> <sample>.raw
  Poprob    per population: list of .raw files -> <prefix>.prob
  Prob2VCF  per chromosome: .prob -> <prefix>.vcf.gz

The stages are not chained automatically; Genotype runs all of them for a set
of samples. Every stage fails if its output file is missing after the program
exits.
*/
package snptools
