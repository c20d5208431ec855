package main

/*
slurm-align generates the alignment sbatch script. Each immediate
subdirectory of the trimmed-reads folder is one sample; each sample
becomes one array task invoking run_align.py with either HISAT2 or
STAR. With -two_pass the task also names the deduplication script the
next pipeline stage should emit.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/drseq/slurmgen/manifest"
	"github.com/drseq/slurmgen/sbatch"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
)

var (
	inputFolder  = flag.String("input_folder", "", "Folder containing all trimmed reads, one subfolder per sample; required")
	outputFolder = flag.String("output_folder", "star_aligned", "Output folder for aligned reads, passed through to run_align.py")
	alignerType  = flag.String("aligner_type", "", "Aligner to use, either 'hisat2' or 'star'; required")
	genomeIdx    = flag.String("genome_idx", "", "Directory of the genome index; required")
	filterIdx    = flag.String("filter_idx", "", "Directory of the contaminants index, including the index prefix (everything up to .1.bt2)")
	library      = flag.String("library", "", "Strandedness of Read 1: 'RF', 'FR' or 'unstranded' (NEBNext needs RF); required")
	twoPass      = flag.Bool("two_pass", false, "Run STAR in two-pass mode; requires -emit_dedup")
	emitDedup    = flag.String("emit_dedup", "", "Name of the deduplication sbatch script emitted by the next pipeline stage")
	email        = flag.String("email", "<uniqname>@umich.edu", "Address for job state notifications")
	slurmAcct    = flag.String("slurm_acct", "<account>", "SLURM account to charge")
	walltime     = flag.String("walltime", "<time>", "Walltime limit per array task")
	mem          = flag.String("mem", "<memory>", "Memory per array task, in MB")
	outputScript = flag.String("output_script", "SBATCHSubArr-Align-STAR.sbatch", "Path of the generated sbatch script")
)

var alignNotes = []string{
	"Recommend 1.5 hours per 30M read sample, 2.5 for 2-pass STAR.",
	"",
	"This requires a conda environment for genome alignment, edit to your named",
	"version in the activate command.",
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -input_folder trimmed_reads -aligner_type star -genome_idx IDX -library RF [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *inputFolder == "" || *genomeIdx == "" {
		flag.Usage()
		log.Fatalf("-input_folder and -genome_idx are required")
	}
	if *alignerType != "hisat2" && *alignerType != "star" {
		log.Fatalf("invalid -aligner_type %q: must be 'hisat2' or 'star'", *alignerType)
	}
	if *library != "RF" && *library != "FR" && *library != "unstranded" {
		log.Fatalf("invalid -library %q: must be 'RF', 'FR' or 'unstranded'", *library)
	}
	if *twoPass && *emitDedup == "" {
		log.Fatalf("-two_pass requires -emit_dedup")
	}

	tpl := manifest.CommandTemplate{
		Prefix: fmt.Sprintf("python3 -u run_align.py --input %s --output %s --aligner %s --index %s -C 8 -L %s",
			*inputFolder, *outputFolder, *alignerType, *genomeIdx, *library),
		ItemFlag: "-S",
		Optional: []manifest.OptionalFlag{
			{Flag: "--filter_index", Value: *filterIdx},
		},
		Quote: true,
	}
	if *twoPass {
		tpl.Optional = append(tpl.Optional,
			manifest.OptionalFlag{Flag: "-T --emit_dedup_slurm", Value: *emitDedup})
	}

	ctx := vcontext.Background()
	n, err := sbatch.Build(ctx, sbatch.Config{
		InputDir: *inputFolder,
		Mode:     sbatch.Dirs,
		Template: tpl,
		Header: sbatch.Header{
			JobName:  "ALIGN",
			MailUser: *email,
			Account:  *slurmAcct,
			Time:     *walltime,
			Mem:      *mem,
			CPUs:     8,
			CondaEnv: "RNA-SEQ",
			Notes:    alignNotes,
		},
		OutputPath: *outputScript,
	})
	if err != nil {
		log.Fatalf("%s: %v", *outputScript, err)
	}
	log.Printf("wrote %d alignment tasks to %s", n, *outputScript)
}
