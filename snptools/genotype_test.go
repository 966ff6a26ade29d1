package snptools_test

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/biowrap/snptools"
	"github.com/grailbio/biowrap/toolexec"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

// fakeSNPTools mimics the outputs of the three programs. It runs on the
// goroutines of Genotype, so it reports errors instead of failing the test.
func fakeSNPTools(c toolexec.Cmd) (toolexec.Result, error) {
	argv := c.Argv()
	var out string
	switch filepath.Base(c.Path) {
	case snptools.BamodelBinary:
		out = argv[0] + ".raw"
	case snptools.PoprobBinary:
		out = argv[2]
	case snptools.Prob2VCFBinary:
		out = argv[1]
	default:
		return toolexec.Result{ExitCode: 127}, fmt.Errorf("unknown program %s", c.Path)
	}
	return toolexec.Result{}, ioutil.WriteFile(out, nil, 0600)
}

func TestGenotype(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := context.Background()

	vcf := filepath.Join(tmpdir, "sites.vcf")
	writeFile(t, vcf, "")
	bamList := filepath.Join(tmpdir, "bams.txt")
	writeFile(t, bamList, "NA12878.bam\nNA12891.bam\nNA12892.bam\nHG00096.bam\n")

	for _, parallelism := range []int{0, 1, 2, 10} {
		r := &toolexec.Recorder{Hook: fakeSNPTools}
		s, err := snptools.New(ctx, vcf, snptools.Opts{Runner: r})
		assert.NoError(t, err)
		out, err := s.Genotype(ctx, snptools.GenotypeOpts{
			Samples:     []string{"NA12878", "NA12891", "NA12892"},
			BAMList:     bamList,
			OutDir:      tmpdir,
			Prefix:      "trio",
			Chrom:       "chr20",
			Parallelism: parallelism,
		})
		assert.NoError(t, err)
		expect.EQ(t, out, filepath.Join(tmpdir, "trio.vcf.gz"))

		data, err := ioutil.ReadFile(filepath.Join(tmpdir, "trio.rawlist"))
		assert.NoError(t, err)
		expect.EQ(t, string(data), fmt.Sprintf("%s\n%s\n%s\n",
			filepath.Join(tmpdir, "NA12878.raw"),
			filepath.Join(tmpdir, "NA12891.raw"),
			filepath.Join(tmpdir, "NA12892.raw")))

		cmds := r.Cmds()
		assert.EQ(t, len(cmds), 5, "parallelism %d", parallelism)
		expect.EQ(t, cmds[3].Argv(), []string{vcf, filepath.Join(tmpdir, "trio.rawlist"), filepath.Join(tmpdir, "trio.prob")})
		expect.EQ(t, cmds[4].Argv(), []string{filepath.Join(tmpdir, "trio.prob"), out, "chr20"})
	}
}

func TestGenotypeStopsOnFailure(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := context.Background()

	vcf := filepath.Join(tmpdir, "sites.vcf")
	writeFile(t, vcf, "")
	bamList := filepath.Join(tmpdir, "bams.txt")
	writeFile(t, bamList, "NA12878.bam\n")

	r := &toolexec.Recorder{Hook: fakeSNPTools}
	s, err := snptools.New(ctx, vcf, snptools.Opts{Runner: r})
	assert.NoError(t, err)
	_, err = s.Genotype(ctx, snptools.GenotypeOpts{
		Samples: []string{"NA12878", "NA12891"},
		BAMList: bamList,
		OutDir:  tmpdir,
		Prefix:  "pop",
		Chrom:   "chr20",
	})
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Invalid, err))
	require.Contains(t, err.Error(), "NA12891")
	// NA12891 has no BAM, so not even NA12878 is modeled.
	expect.EQ(t, len(r.Cmds()), 0)

	_, err = s.Genotype(ctx, snptools.GenotypeOpts{BAMList: bamList, Prefix: "pop"})
	require.Error(t, err)
}

func TestGenotypeDuplicateSamples(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := context.Background()

	vcf := filepath.Join(tmpdir, "sites.vcf")
	writeFile(t, vcf, "")
	bamList := filepath.Join(tmpdir, "bams.txt")
	writeFile(t, bamList, "NA12878.bam\nNA12891.bam\n")

	r := &toolexec.Recorder{Hook: fakeSNPTools}
	s, err := snptools.New(ctx, vcf, snptools.Opts{Runner: r})
	assert.NoError(t, err)
	_, err = s.Genotype(ctx, snptools.GenotypeOpts{
		Samples:     []string{"NA12878", "NA12891", "NA12878"},
		BAMList:     bamList,
		OutDir:      tmpdir,
		Prefix:      "pop",
		Chrom:       "chr20",
		Parallelism: 2,
	})
	require.Error(t, err)
	expect.True(t, errors.Is(errors.Invalid, err))
	require.Contains(t, err.Error(), "duplicate sample")
	require.Contains(t, err.Error(), "NA12878")
	expect.EQ(t, len(r.Cmds()), 0)
	_, err = os.Stat(filepath.Join(tmpdir, "pop.rawlist"))
	expect.True(t, os.IsNotExist(err))
}
