package main

/*
slurm-dedup generates the deduplication sbatch script for aligned
samples, the stage between two-pass alignment and realignment. Each
immediate subdirectory of the aligned-reads folder is one sample; each
sample becomes one array task invoking run_dedup.py.
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
	inputFolder  = flag.String("input_folder", "", "Folder containing aligned reads, one subfolder per sample; required")
	outputFolder = flag.String("output_folder", "dedup", "Output folder for deduplicated reads, passed through to run_dedup.py")
	email        = flag.String("email", "<uniqname>@umich.edu", "Address for job state notifications")
	slurmAcct    = flag.String("slurm_acct", "<account>", "SLURM account to charge")
	walltime     = flag.String("walltime", "<time>", "Walltime limit per array task")
	mem          = flag.String("mem", "<memory>", "Memory per array task, in MB")
	outputScript = flag.String("output_script", "SBATCHSubArr-Dedup.sbatch", "Path of the generated sbatch script; match the -emit_dedup name given to slurm-align")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -input_folder star_aligned [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *inputFolder == "" {
		flag.Usage()
		log.Fatalf("-input_folder is required")
	}

	ctx := vcontext.Background()
	n, err := sbatch.Build(ctx, sbatch.Config{
		InputDir: *inputFolder,
		Mode:     sbatch.Dirs,
		Template: manifest.CommandTemplate{
			Prefix: fmt.Sprintf("python3 run_dedup.py --input %s --output %s",
				*inputFolder, *outputFolder),
			ItemFlag: "-S",
			Quote:    true,
		},
		Header: sbatch.Header{
			JobName:  "DEDUP",
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
	log.Printf("wrote %d deduplication tasks to %s", n, *outputScript)
}
