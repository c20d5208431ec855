package main

/*
slurm-delrate generates the deletion-rate sbatch script. The
realignments tree is two levels deep: one folder per sample group,
one subfolder per run. Every (group, run) pair becomes one array task
invoking run_calculate_dr.py, so each BAM parallelizes independently.
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
	walltime     = flag.String("walltime", "", "Walltime limit per array task; required")
	mem          = flag.String("mem", "", "Memory per array task, in MB; required")
	fa           = flag.String("fa", "", "Directory of the reference genome FASTA file; required")
	email        = flag.String("email", "<uniqname>@umich.edu", "Address for job state notifications")
	slurmAcct    = flag.String("slurm_acct", "<account>", "SLURM account to charge")
	inputFolder  = flag.String("input_folder", "realignments", "Folder of realigned sample groups, one run subfolder per BAM")
	outputScript = flag.String("output_script", "run_calculate_dr.sbatch", "Path of the generated sbatch script")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -walltime 2:00:00 -mem 8000 -fa /path/to/genome [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *walltime == "" || *mem == "" || *fa == "" {
		flag.Usage()
		log.Fatalf("-walltime, -mem and -fa are required")
	}
	if _, err := os.Stat(*inputFolder); os.IsNotExist(err) {
		log.Fatalf("realignments folder %s does not exist; did you run realignGap.py?", *inputFolder)
	}

	ctx := vcontext.Background()
	n, err := sbatch.Build(ctx, sbatch.Config{
		InputDir: *inputFolder,
		Mode:     sbatch.Runs,
		Template: manifest.CommandTemplate{
			Prefix:    "python3 run_calculate_dr.py",
			GroupFlag: "--folder_name",
			ItemFlag:  "--subf_name",
			Optional: []manifest.OptionalFlag{
				{Flag: "--fasta", Value: *fa},
			},
		},
		Header: sbatch.Header{
			JobName:  "calculate_dr",
			MailUser: *email,
			Account:  *slurmAcct,
			Time:     *walltime,
			Mem:      *mem,
			CondaEnv: "RNA-STAR",
			Notes:    sbatch.ArrayNotes,
		},
		OutputPath: *outputScript,
	})
	if err != nil {
		log.Fatalf("%s: %v", *outputScript, err)
	}
	log.Printf("wrote %d deletion-rate tasks to %s", n, *outputScript)
}
