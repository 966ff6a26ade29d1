package toolexec_test

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/biowrap/toolexec"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script in dir.
func writeScript(t *testing.T, dir, name, body string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestExecRedirectsStdout(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := context.Background()

	prog := writeScript(t, tmpdir, "vg", `echo "$@"
echo "progress" >&2
`)
	out := filepath.Join(tmpdir, "aln.gam.stats")
	res, err := toolexec.Exec{}.Run(ctx, toolexec.Cmd{
		Path:   prog,
		Sub:    "stats",
		Args:   []toolexec.Arg{{"-a", "my aln.gam"}},
		Stdout: out,
	})
	assert.NoError(t, err)
	expect.EQ(t, res.ExitCode, 0)
	expect.EQ(t, len(res.Stdout), 0)
	expect.EQ(t, string(res.Stderr), "progress\n")

	data, err := ioutil.ReadFile(out)
	assert.NoError(t, err)
	expect.EQ(t, string(data), "stats -a my aln.gam\n")
}

func TestExecCapturesStdout(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	prog := writeScript(t, tmpdir, "bamodel", `echo "$#"`)
	res, err := toolexec.Exec{Dir: tmpdir}.Run(context.Background(), toolexec.Cmd{
		Path: prog,
		Args: []toolexec.Arg{{"", "NA12878"}, {"", "sites.vcf"}, {"", "a b.bam"}},
	})
	assert.NoError(t, err)
	expect.EQ(t, string(res.Stdout), "3\n")
}

func TestExecFailure(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	prog := writeScript(t, tmpdir, "poprob", `echo "cannot open sites.vcf" >&2
exit 3
`)
	res, err := toolexec.Exec{}.Run(context.Background(), toolexec.Cmd{
		Path: prog,
		Args: []toolexec.Arg{{"", "sites.vcf"}},
	})
	require.Error(t, err)
	expect.EQ(t, res.ExitCode, 3)
	require.Contains(t, err.Error(), "cannot open sites.vcf")
	require.Contains(t, err.Error(), prog+" sites.vcf")
}

func TestExecMissingProgram(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	res, err := toolexec.Exec{}.Run(context.Background(), toolexec.Cmd{
		Path: filepath.Join(tmpdir, "nonexistent"),
	})
	require.Error(t, err)
	expect.EQ(t, res.ExitCode, -1)
}

func TestRecorder(t *testing.T) {
	r := &toolexec.Recorder{}
	ctx := context.Background()
	_, err := r.Run(ctx, toolexec.Cmd{Path: "vg", Sub: "stats"})
	assert.NoError(t, err)
	_, err = r.Run(ctx, toolexec.Cmd{Path: "vg", Sub: "call"})
	assert.NoError(t, err)
	cmds := r.Cmds()
	assert.EQ(t, len(cmds), 2)
	expect.EQ(t, cmds[0].Sub, "stats")
	expect.EQ(t, cmds[1].Sub, "call")
}

func TestExecRelativeStdout(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	prog := writeScript(t, tmpdir, "vg", `pwd`)
	_, err := toolexec.Exec{Dir: tmpdir}.Run(context.Background(), toolexec.Cmd{
		Path:   prog,
		Sub:    "call",
		Stdout: "out.vcf",
	})
	assert.NoError(t, err)
	data, err := ioutil.ReadFile(filepath.Join(tmpdir, "out.vcf"))
	assert.NoError(t, err)
	expect.True(t, len(data) > 0)
}
