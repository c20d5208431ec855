// Package manifest derives the per-sample work items for a SLURM array
// job from a directory of pipeline inputs, and renders one command line
// per item. It is a pure value layer: discovery reads the filesystem,
// rendering touches nothing. Serializing the result into an sbatch
// script is the job of the sbatch package.
package manifest

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// A Task is one unit of array-job work. Name identifies the sample (or
// run) the task operates on. Group is set only by two-level discovery
// and holds the path of the group directory the run lives under; flat
// discovery leaves it empty.
type Task struct {
	Group string
	Name  string
}

// SampleName derives the canonical sample identifier from a raw FASTQ
// filename: the basename up to the first underscore. Paired R1/R2
// files and multiple lanes for one sample therefore collapse to a
// single identifier.
func SampleName(filename string) string {
	base := filepath.Base(filename)
	if i := strings.IndexByte(base, '_'); i >= 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, ".fastq.gz")
}

// DiscoverSamples lists entries of dir matching the glob pattern,
// derives an identifier from each with derive, and returns the
// deduplicated identifiers as tasks, sorted lexicographically so that
// rendered output is reproducible. Entries whose derived identifier is
// empty are skipped. An empty result is not an error here; rejecting
// it before the array bound is computed is the caller's job.
func DiscoverSamples(dir, pattern string, derive func(string) string) ([]Task, error) {
	if err := statDir(dir); err != nil {
		return nil, err
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "bad filename pattern %q", pattern)
	}
	seen := make(map[string]bool)
	var tasks []Task
	for _, p := range paths {
		name := derive(filepath.Base(p))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tasks = append(tasks, Task{Name: name})
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks, nil
}

// DiscoverDirs returns one task per immediate subdirectory of dir, in
// name order. Non-directory entries are ignored.
func DiscoverDirs(dir string) ([]Task, error) {
	if err := statDir(dir); err != nil {
		return nil, err
	}
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	var tasks []Task
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		tasks = append(tasks, Task{Name: e.Name()})
	}
	return tasks, nil
}

// DiscoverRuns enumerates two-level work items: every group directory
// under root, and within it every run subdirectory. Task.Group is the
// root-joined group path and Task.Name the run directory name. Order is
// group-major, run-minor, both in directory listing order. Runs are
// never deduplicated across groups; the same run name under two groups
// is two distinct tasks.
func DiscoverRuns(root string) ([]Task, error) {
	if err := statDir(root); err != nil {
		return nil, err
	}
	groups, err := ioutil.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", root)
	}
	var tasks []Task
	for _, g := range groups {
		if !g.IsDir() {
			continue
		}
		groupPath := filepath.Join(root, g.Name())
		runs, err := ioutil.ReadDir(groupPath)
		if err != nil {
			return nil, errors.Wrapf(err, "list %s", groupPath)
		}
		for _, r := range runs {
			if !r.IsDir() {
				continue
			}
			tasks = append(tasks, Task{Group: groupPath, Name: r.Name()})
		}
	}
	return tasks, nil
}

func statDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("input folder %s does not exist", dir)
		}
		return errors.Wrapf(err, "stat %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", dir)
	}
	return nil
}
