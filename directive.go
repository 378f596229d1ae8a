package depscan

import (
	"bytes"
	"strings"
)

// Syntax names the two directive keywords a scanner recognises. A directive
// line starts with the keyword at column zero, followed by a one-character
// delimiter, a quote, the module name, a closing quote and a semicolon:
//
//	goog.provide('lf.Database');
//	declare 'a.b.c';
type Syntax struct {
	Provide string
	Require string
}

// DefaultSyntax is the Closure Library directive convention.
var DefaultSyntax = Syntax{
	Provide: "goog.provide",
	Require: "goog.require",
}

// Directives holds the names one file declares and requires, in line order.
type Directives struct {
	Provides []string
	Requires []string
}

// ExtractName returns the module name of a directive line, or false when the
// line is not a keyword directive.
//
// Matching is a literal prefix test against the untrimmed line. The name
// runs from two bytes past the keyword up to the first semicolon, with
// trailing whitespace and then any trailing ")" and quote characters
// removed. Content after the semicolon is ignored.
func ExtractName(line, keyword string) (string, bool) {
	if keyword == "" || !strings.HasPrefix(line, keyword) {
		return "", false
	}
	start := len(keyword) + 2
	end := strings.IndexByte(line, ';')
	if end < start {
		return "", false
	}
	name := strings.TrimRight(strings.TrimRight(line[start:end], " \t"), `)'"`)
	if name == "" {
		return "", false
	}
	return name, true
}

// ScanLines extracts every directive in content. All lines are examined;
// a file may mix any number of declarations and requirements.
func (s Syntax) ScanLines(content []byte) Directives {
	var d Directives
	for len(content) > 0 {
		var line []byte
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line, content = content[:i], content[i+1:]
		} else {
			line, content = content, nil
		}
		text := string(line)
		if name, ok := ExtractName(text, s.Require); ok {
			d.Requires = append(d.Requires, name)
		}
		if name, ok := ExtractName(text, s.Provide); ok {
			d.Provides = append(d.Provides, name)
		}
	}
	return d
}

// apply registers d for path in idx.
func (d Directives) apply(path string, idx *Index) {
	for _, name := range d.Requires {
		idx.Requires.Set(path, name)
	}
	for _, name := range d.Provides {
		idx.Provides.Set(name, path)
	}
}
