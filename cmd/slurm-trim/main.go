package main

/*
slurm-trim generates the adapter-trimming sbatch script for a folder of
raw FASTQs. Every distinct sample (the filename token before the first
underscore, so paired R1/R2 files collapse to one sample) becomes one
array task invoking run_cutadapt_fastp.py.
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
	inputFolder  = flag.String("input_folder", "", "Folder containing all raw FASTQs; required")
	outputFolder = flag.String("output_folder", "", "Output folder for trimmed reads, passed through to run_cutadapt_fastp.py; required")
	email        = flag.String("email", "<uniqname>@umich.edu", "Address for job state notifications")
	slurmAcct    = flag.String("slurm_acct", "<account>", "SLURM account to charge")
	walltime     = flag.String("walltime", "<time>", "Walltime limit per array task")
	mem          = flag.String("mem", "<memory>", "Memory per array task, in MB")
	outputScript = flag.String("output_script", "SBATCHSubArr-CUT_FASTP.sbatch", "Path of the generated sbatch script")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -input_folder raw_fastqs -output_folder trimmed_reads [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *inputFolder == "" || *outputFolder == "" {
		flag.Usage()
		log.Fatalf("-input_folder and -output_folder are required")
	}

	ctx := vcontext.Background()
	n, err := sbatch.Build(ctx, sbatch.Config{
		InputDir: *inputFolder,
		Mode:     sbatch.Samples,
		Pattern:  "*.fastq.gz",
		Derive:   manifest.SampleName,
		Template: manifest.CommandTemplate{
			Prefix: fmt.Sprintf("python3 run_cutadapt_fastp.py --input %s --output %s -C 2 -U 12",
				*inputFolder, *outputFolder),
			ItemFlag: "-S",
			Quote:    true,
		},
		Header: sbatch.Header{
			JobName:  "CUT_FASTP",
			MailUser: *email,
			Account:  *slurmAcct,
			Time:     *walltime,
			Mem:      *mem,
			CondaEnv: "RNA-SEQ",
			Notes:    sbatch.ArrayNotes,
		},
		OutputPath: *outputScript,
	})
	if err != nil {
		log.Fatalf("%s: %v", *outputScript, err)
	}
	log.Printf("wrote %d trimming tasks to %s", n, *outputScript)
}
