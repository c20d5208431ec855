package sbatch_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drseq/slurmgen/manifest"
	"github.com/drseq/slurmgen/sbatch"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestBuildTrimScript(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	inputDir := filepath.Join(tmpdir, "raw_fastqs")
	assert.NoError(t, os.Mkdir(inputDir, 0755))
	for _, name := range []string{"S1_L001_R1.fastq.gz", "S1_L001_R2.fastq.gz", "S2_L001_R1.fastq.gz"} {
		assert.NoError(t, ioutil.WriteFile(filepath.Join(inputDir, name), []byte("x"), 0600))
	}
	path := filepath.Join(tmpdir, "trim.sbatch")

	n, err := sbatch.Build(context.Background(), sbatch.Config{
		InputDir: inputDir,
		Mode:     sbatch.Samples,
		Pattern:  "*.fastq.gz",
		Derive:   manifest.SampleName,
		Template: manifest.CommandTemplate{
			Prefix:   "python3 run_cutadapt_fastp.py --input raw_fastqs --output trimmed_reads -C 2 -U 12",
			ItemFlag: "-S",
			Quote:    true,
		},
		Header:     testHeader,
		OutputPath: path,
	})
	assert.NoError(t, err)
	expect.EQ(t, n, 2)

	got := readScript(t, path)
	expect.True(t, strings.Contains(got, "#SBATCH --array=0-1\n"))
	i1 := strings.Index(got, `"python3 run_cutadapt_fastp.py --input raw_fastqs --output trimmed_reads -C 2 -U 12 -S S1"`)
	i2 := strings.Index(got, `"python3 run_cutadapt_fastp.py --input raw_fastqs --output trimmed_reads -C 2 -U 12 -S S2"`)
	expect.True(t, i1 >= 0 && i2 > i1, "task lines missing or out of order")
}

func TestBuildRunsScript(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	root := filepath.Join(tmpdir, "realignments")
	for _, d := range []string{"G1/a", "G1/b", "G2/c"} {
		assert.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
	path := filepath.Join(tmpdir, "dr.sbatch")

	n, err := sbatch.Build(context.Background(), sbatch.Config{
		InputDir: root,
		Mode:     sbatch.Runs,
		Template: manifest.CommandTemplate{
			Prefix:    "python3 run_calculate_dr.py",
			GroupFlag: "--folder_name",
			ItemFlag:  "--subf_name",
			Optional:  []manifest.OptionalFlag{{Flag: "--fasta", Value: "/ref/genome.fa"}},
		},
		Header:     testHeader,
		OutputPath: path,
	})
	assert.NoError(t, err)
	expect.EQ(t, n, 3)

	got := readScript(t, path)
	expect.True(t, strings.Contains(got, "#SBATCH --array=0-2\n"))
	wantOrder := []string{
		"--folder_name " + filepath.Join(root, "G1") + " --subf_name a --fasta /ref/genome.fa",
		"--folder_name " + filepath.Join(root, "G1") + " --subf_name b --fasta /ref/genome.fa",
		"--folder_name " + filepath.Join(root, "G2") + " --subf_name c --fasta /ref/genome.fa",
	}
	last := -1
	for _, line := range wantOrder {
		i := strings.Index(got, line)
		expect.True(t, i > last, "task %q missing or out of order", line)
		last = i
	}
}

func TestBuildEmptyInput(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	inputDir := filepath.Join(tmpdir, "raw_fastqs")
	assert.NoError(t, os.Mkdir(inputDir, 0755))
	path := filepath.Join(tmpdir, "trim.sbatch")

	_, err := sbatch.Build(context.Background(), sbatch.Config{
		InputDir:   inputDir,
		Mode:       sbatch.Samples,
		Pattern:    "*.fastq.gz",
		Derive:     manifest.SampleName,
		Header:     testHeader,
		OutputPath: path,
	})
	expect.True(t, err == sbatch.ErrNoTasks, "got %v", err)
	_, statErr := os.Stat(path)
	expect.True(t, os.IsNotExist(statErr))
}

func TestBuildMissingInput(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tmpdir, "trim.sbatch")
	_, err := sbatch.Build(context.Background(), sbatch.Config{
		InputDir:   filepath.Join(tmpdir, "no-such-folder"),
		Mode:       sbatch.Dirs,
		Header:     testHeader,
		OutputPath: path,
	})
	expect.True(t, err != nil && strings.Contains(err.Error(), "does not exist"), "got %v", err)
	_, statErr := os.Stat(path)
	expect.True(t, os.IsNotExist(statErr), "no script should be written on discovery failure")
}
