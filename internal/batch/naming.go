package batch

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Naming builds timestamped output paths. One Naming is created per run so
// that every artifact of the run shares the same timestamp.
type Naming struct {
	Timestamp string
	OutputDir string

	// stems overrides Stem for inputs whose plain stems collide.
	stems map[string]string
}

// NewNaming formats now with layout (a Go time layout) as the run timestamp.
func NewNaming(outputDir, layout string, now time.Time) Naming {
	return Naming{Timestamp: now.Format(layout), OutputDir: outputDir}
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ForInputs returns a copy of n that keeps the outputs of files apart. Inputs
// sharing a stem get their path below the deepest common folder folded into
// the stem, so "in/a/x.pdf" and "in/b/x.pdf" become "a_x" and "b_x". Any
// stem still taken gets a "_2", "_3", ... suffix.
func (n Naming) ForInputs(files []string) Naming {
	groups := make(map[string][]string)
	for _, f := range files {
		groups[Stem(f)] = append(groups[Stem(f)], f)
	}

	candidate := make(map[string]string, len(files))
	for stem, group := range groups {
		if len(group) < 2 {
			candidate[group[0]] = stem
			continue
		}
		for f, s := range foldFolders(group) {
			candidate[f] = s
		}
	}

	n.stems = make(map[string]string)
	taken := make(map[string]bool, len(files))
	for _, f := range files {
		if _, done := n.stems[f]; done {
			continue
		}
		stem := candidate[f]
		for i := 2; taken[stem]; i++ {
			stem = candidate[f] + "_" + strconv.Itoa(i)
		}
		taken[stem] = true
		n.stems[f] = stem
	}
	return n
}

// foldFolders names each file by its folders below the common parent of the
// group plus its stem, joined with underscores.
func foldFolders(group []string) map[string]string {
	parts := make([][]string, len(group))
	common := -1
	for i, f := range group {
		parts[i] = strings.Split(filepath.ToSlash(filepath.Clean(f)), "/")
		dirs := parts[i][:len(parts[i])-1]
		switch {
		case common < 0:
			common = len(dirs)
		case len(dirs) < common:
			common = len(dirs)
		}
		for k := 0; k < common; k++ {
			if dirs[k] != parts[0][k] {
				common = k
				break
			}
		}
	}

	stems := make(map[string]string, len(group))
	for i, f := range group {
		rel := append([]string(nil), parts[i][common:len(parts[i])-1]...)
		rel = append(rel, Stem(f))
		stems[f] = strings.Join(rel, "_")
	}
	return stems
}

// Stem returns the output stem of input: its plain Stem unless ForInputs
// had to rename it.
func (n Naming) Stem(input string) string {
	if s, ok := n.stems[input]; ok {
		return s
	}
	return Stem(input)
}

// Output returns <dir>/<ts>_<stem>_<suffix><ext>, or <dir>/<ts>_<stem><ext>
// when suffix is empty.
func (n Naming) Output(input, suffix, ext string) string {
	name := n.Timestamp + "_" + n.Stem(input)
	if suffix != "" {
		name += "_" + suffix
	}
	return filepath.Join(n.OutputDir, name+ext)
}

// Prefixed returns <dir>/<ts>_<prefix>_<stem><ext of input>.
func (n Naming) Prefixed(input, prefix string) string {
	return filepath.Join(n.OutputDir, n.Timestamp+"_"+prefix+"_"+n.Stem(input)+filepath.Ext(input))
}

// Named returns <dir>/<ts>_<name>.
func (n Naming) Named(name string) string {
	return filepath.Join(n.OutputDir, n.Timestamp+"_"+name)
}
