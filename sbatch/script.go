// Package sbatch serializes a task manifest into a SLURM array-job
// submission script: a fixed directive header, a bash tasks array with
// one entry per work item, and a dispatch trailer that evaluates the
// entry selected by SLURM_ARRAY_TASK_ID. Directive names and trailer
// syntax are reproduced byte for byte; the scheduler consumes them
// verbatim.
package sbatch

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// ErrNoTasks is returned when a script would contain zero tasks. A
// zero-task script would declare the invalid bound --array=0--1, so
// the condition is rejected before anything is written.
var ErrNoTasks = errors.New("no work items discovered")

// Header holds the per-script directive and preamble fields. The
// array bound is not part of the header; it is computed from the task
// count at write time.
type Header struct {
	JobName  string
	MailUser string
	Account  string
	Time     string
	Mem      string // megabytes, rendered with the "m" suffix

	// CPUs, when positive, emits --cpus-per-task; otherwise the
	// script requests one task on one node.
	CPUs int

	// CondaEnv is the name of the conda environment activated in
	// the script preamble.
	CondaEnv string

	// Notes are the banner comment lines between the standard
	// "edit the strings" header and the submit instructions. An
	// empty string yields a bare "#" line.
	Notes []string
}

// ArrayNotes is the standard banner text explaining how the tasks
// array relates to the --array directive. Stages without their own
// notes use it verbatim.
var ArrayNotes = []string{
	"The #SBATCH --array variable above creates an array [0,1,2,3]. Change it so that the length",
	"is how many jobs you need (same as number of strings under $tasks).",
	"",
	"This script is submitted that many times, but only one line from $tasks is",
	"evaluated each time.",
	"",
	"For more info on #SBATCH variables, see https://arc.umich.edu/greatlakes/slurm-user-guide/",
	"and https://slurm.schedmd.com/sbatch.html",
	"",
	"This requires a conda environment with samtools and pysam (RNA-STAR)",
}

var scriptTmpl = template.Must(template.New("sbatch").Parse(`#!/usr/bin/env bash
#SBATCH --job-name={{.JobName}}
#SBATCH --mail-user={{.MailUser}}
#SBATCH --mail-type=BEGIN,END,FAIL
#SBATCH --output={{.JobName}}_%u_%A_%a.out
#SBATCH --array=0-{{.ArrayUpper}}
#SBATCH --account={{.Account}}
#SBATCH --time={{.Time}}
#SBATCH --mem={{.Mem}}m
#SBATCH --partition=standard
{{- if gt .CPUs 0}}
#SBATCH --cpus-per-task={{.CPUs}}
{{- else}}
#SBATCH --ntasks-per-node=1
#SBATCH --nodes=1
{{- end}}
{{.Banner}}

module purge
eval "$(conda shell.bash hook)"
conda activate ~/miniconda3/envs/{{.CondaEnv}}

declare -a tasks=(
`))

const trailer = "\n)\neval ${tasks[$SLURM_ARRAY_TASK_ID]}"

func banner(hdr Header, submitName string) string {
	rule := strings.Repeat("#", 80)
	lines := []string{
		rule,
		"# Edit the strings under 'declare -a tasks=(' to match your experiments.",
		"#",
	}
	for _, note := range hdr.Notes {
		if note == "" {
			lines = append(lines, "#")
		} else {
			lines = append(lines, "# "+note)
		}
	}
	lines = append(lines,
		"# ",
		"# To call this script:",
		"# sbatch "+submitName,
		rule,
	)
	return strings.Join(lines, "\n")
}

// Write serializes the script to path. On a fresh path the header,
// task array and trailer are written in one pass, with the array
// bound computed from the full task count, so the declared bound
// always equals len(tasks)-1 at creation time.
//
// If path already exists only the task lines are appended: the
// existing header, including its now-stale array bound, is never
// rewritten. Reruns against the same path therefore grow the body
// while the bound keeps reflecting the first invocation; a warning is
// logged and the caller is expected to delete the script before
// regenerating. Partial writes are not rolled back.
func Write(path string, hdr Header, tasks []string) error {
	if len(tasks) == 0 {
		return ErrNoTasks
	}

	if _, err := os.Stat(path); err == nil {
		log.Error.Printf("%s exists: appending %d task lines; the existing --array bound is stale, delete the script to regenerate",
			path, len(tasks))
		return appendTasks(path, tasks)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %s", path)
	}

	var buf bytes.Buffer
	data := struct {
		Header
		ArrayUpper int
		Banner     string
	}{hdr, len(tasks) - 1, banner(hdr, filepath.Base(path))}
	if err := scriptTmpl.Execute(&buf, data); err != nil {
		return errors.Wrapf(err, "render header for %s", path)
	}
	writeTasks(&buf, tasks)
	buf.WriteString(trailer)
	if err := ioutil.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "write sbatch script %s", path)
	}
	return nil
}

func appendTasks(path string, tasks []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open sbatch script %s for append", path)
	}
	var buf bytes.Buffer
	writeTasks(&buf, tasks)
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return errors.Wrapf(err, "append to sbatch script %s", path)
	}
	return errors.Wrapf(f.Close(), "close sbatch script %s", path)
}

func writeTasks(buf *bytes.Buffer, tasks []string) {
	for _, task := range tasks {
		buf.WriteString("\n")
		buf.WriteString(task)
	}
}
