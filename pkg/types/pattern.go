package types

import (
	"github.com/gobwas/glob"
)

// Pattern filters listing rows by name using a glob (e.g. "*.pdf", "report_*").
// The zero value matches everything.
type Pattern struct {
	Match string `yaml:"match"`

	compiled glob.Glob
}

// CompilePattern compiles a glob pattern. An empty pattern matches everything.
func CompilePattern(match string) (*Pattern, error) {
	p := &Pattern{Match: match}
	if match == "" {
		return p, nil
	}
	g, err := glob.Compile(match)
	if err != nil {
		return nil, err
	}
	p.compiled = g
	return p, nil
}

// Matches reports whether name matches the pattern.
func (p *Pattern) Matches(name string) bool {
	if p == nil || p.compiled == nil {
		return true
	}
	return p.compiled.Match(name)
}

// Filter returns the top-level entries of l whose name matches. Directories
// whose inline children match are kept with only the matching children.
func (p *Pattern) Filter(l Listing) Listing {
	if p == nil || p.compiled == nil {
		return l
	}
	out := Listing{}
	for _, e := range l {
		if p.Matches(e.Name) {
			out = append(out, e)
			continue
		}
		if !e.IsDir() {
			continue
		}
		var kids []Entry
		for _, c := range e.Contents {
			if p.Matches(c.Name) {
				kids = append(kids, c)
			}
		}
		if len(kids) > 0 {
			out = append(out, Entry{Name: e.Name, Type: e.Type, Contents: kids})
		}
	}
	return out
}
