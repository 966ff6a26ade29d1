// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

/*
bio-snptools runs the SNPTools programs bamodel, poprob and prob2vcf against a
VCF of biallelic SNP sites, and prints the path of the file each step wrote.

Sample usage, one stage at a time:
bio-snptools bamodel -vcf sites.vcf.gz -outdir out NA12878 bams.txt
bio-snptools poprob -vcf sites.vcf.gz -outdir out chr20 raws.txt
bio-snptools prob2vcf -vcf sites.vcf.gz -outdir out out/chr20.prob chr20 20

or all at once:
bio-snptools genotype -vcf sites.vcf.gz -outdir out -samples NA12878,NA12891 \
    bams.txt chr20 20

Every step fails if the program exits with an error or does not write its
output file.
*/
package main
