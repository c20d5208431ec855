package manifest

import "strings"

// An OptionalFlag is appended to a rendered command line only when its
// value is nonempty.
type OptionalFlag struct {
	Flag  string
	Value string
}

// A CommandTemplate is the fixed shape of the command line rendered for
// each task. It is built once per invocation from configuration and
// never mutated. Field order in the rendered line is fixed: prefix,
// group flag, item flag, then optional flags in declaration order; the
// output is exact-string reproducible for a given template and task.
//
// Rendering performs no shell escaping. Task names are derived from
// directory entries and are assumed to be filesystem-safe tokens; a
// name needing quoting would produce a broken task line.
type CommandTemplate struct {
	// Prefix is the executable plus all fixed flags, verbatim.
	Prefix string
	// GroupFlag, when nonempty, is emitted with Task.Group before
	// the item flag.
	GroupFlag string
	// ItemFlag names the per-item flag, e.g. "-S".
	ItemFlag string
	// Optional flags, appended in order when their value is set.
	Optional []OptionalFlag
	// Quote wraps the whole rendered line in double quotes.
	Quote bool
}

// Render substitutes one task into the template.
func (t CommandTemplate) Render(task Task) string {
	var b strings.Builder
	b.WriteString(t.Prefix)
	if t.GroupFlag != "" {
		b.WriteString(" " + t.GroupFlag + " " + task.Group)
	}
	if t.ItemFlag != "" {
		b.WriteString(" " + t.ItemFlag + " " + task.Name)
	}
	for _, f := range t.Optional {
		if f.Value == "" {
			continue
		}
		b.WriteString(" " + f.Flag + " " + f.Value)
	}
	if t.Quote {
		return `"` + b.String() + `"`
	}
	return b.String()
}

// Render renders every task in order, one line per task.
func Render(tasks []Task, tpl CommandTemplate) []string {
	lines := make([]string, len(tasks))
	for i, task := range tasks {
		lines[i] = tpl.Render(task)
	}
	return lines
}
