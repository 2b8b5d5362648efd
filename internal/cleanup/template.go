package cleanup

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"strconv"
	"strings"
)

// ErrInvalidTemplate is returned when a replacement template is malformed or
// refers to a group the extractor's pattern does not define.
var ErrInvalidTemplate = errors.New("invalid replacement template")

// Match is one regular expression match against a payee.
type Match struct {
	re   *regexp.Regexp
	text string
	loc  []int
}

// Text returns the whole matched text.
func (m Match) Text() string {
	return m.Group(0)
}

// Group returns the text of capture group i, or "" if it did not participate.
func (m Match) Group(i int) string {
	if i < 0 || 2*i+1 >= len(m.loc) || m.loc[2*i] < 0 {
		return ""
	}
	return m.text[m.loc[2*i]:m.loc[2*i+1]]
}

// Named returns the text of the named capture group.
func (m Match) Named(name string) string {
	return m.Group(m.re.SubexpIndex(name))
}

// Replacement derives a string from a Match: either a template with
// backreferences (\1, \g<1>, \g<name>) or a function of the match.
type Replacement struct {
	template string
	segments []segment
	err      error
	fn       func(Match) string
}

// Template returns a Replacement expanding s against the match.
// Supported escapes are \N, \g<N>, \g<name>, \\, \n, \r, \t, \f, \v and \a.
func Template(s string) Replacement {
	segs, err := parseTemplate(s)
	return Replacement{template: s, segments: segs, err: err}
}

// Func returns a Replacement computed by fn.
func Func(fn func(Match) string) Replacement {
	return Replacement{fn: fn}
}

// String returns the template text, or "<func>" for function replacements.
func (r Replacement) String() string {
	if r.fn != nil {
		return "<func>"
	}
	return r.template
}

func (r Replacement) expand(m Match) string {
	if r.fn != nil {
		return r.fn(m)
	}
	var b strings.Builder
	for _, s := range r.segments {
		if s.group < 0 {
			b.WriteString(s.literal)
			continue
		}
		if s.name != "" {
			b.WriteString(m.Named(s.name))
			continue
		}
		b.WriteString(m.Group(s.group))
	}
	return b.String()
}

// check verifies the template against the pattern it will be expanded with.
func (r Replacement) check(re *regexp.Regexp) error {
	if r.fn != nil {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	for _, s := range r.segments {
		switch {
		case s.group < 0:
		case s.name != "":
			if re.SubexpIndex(s.name) < 0 {
				return fmt.Errorf("%w: %q: unknown group name %q", ErrInvalidTemplate, r.template, s.name)
			}
		case s.group > re.NumSubexp():
			return fmt.Errorf("%w: %q: invalid group reference %d", ErrInvalidTemplate, r.template, s.group)
		}
	}
	return nil
}

// segment is either literal text (group < 0) or a group reference.
type segment struct {
	literal string
	group   int
	name    string
}

var simpleEscapes = map[byte]string{
	'\\': `\`,
	'n':  "\n",
	'r':  "\r",
	't':  "\t",
	'f':  "\f",
	'v':  "\v",
	'a':  "\a",
}

func parseTemplate(s string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			lit.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			return nil, fmt.Errorf("%w: %q: trailing backslash", ErrInvalidTemplate, s)
		}
		i++
		c = s[i]
		switch {
		case c == 'g':
			end := strings.IndexByte(s[i:], '>')
			if i+1 >= len(s) || s[i+1] != '<' || end < 0 {
				return nil, fmt.Errorf("%w: %q: malformed \\g<...> reference", ErrInvalidTemplate, s)
			}
			ref := s[i+2 : i+end]
			i += end
			if ref == "" {
				return nil, fmt.Errorf("%w: %q: empty group reference", ErrInvalidTemplate, s)
			}
			flush()
			if n, err := strconv.Atoi(ref); err == nil {
				if n < 0 {
					return nil, fmt.Errorf("%w: %q: negative group reference", ErrInvalidTemplate, s)
				}
				segs = append(segs, segment{group: n})
			} else {
				segs = append(segs, segment{group: 0, name: ref})
			}
		case c >= '1' && c <= '9':
			n := int(c - '0')
			if i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
				i++
				n = n*10 + int(s[i]-'0')
			}
			flush()
			segs = append(segs, segment{group: n})
		case c == '0':
			return nil, fmt.Errorf("%w: %q: octal escapes are not supported", ErrInvalidTemplate, s)
		default:
			if e, ok := simpleEscapes[c]; ok {
				lit.WriteString(e)
				continue
			}
			if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
				return nil, fmt.Errorf("%w: %q: bad escape \\%c", ErrInvalidTemplate, s, c)
			}
			lit.WriteByte('\\')
			lit.WriteByte(c)
		}
	}
	flush()
	return segs, nil
}

// replaceAll substitutes every match of re in src with r.
//
// FindAll skips an empty match that starts where a non-empty match ended;
// such matches are substituted too, so `x*` on "abxd" gives "-a-b--d-".
func replaceAll(re *regexp.Regexp, src string, r Replacement) string {
	var b strings.Builder
	last := 0
	emit := func(loc []int) {
		b.WriteString(src[last:loc[0]])
		b.WriteString(r.expand(Match{re: re, text: src, loc: loc}))
		last = loc[1]
	}

	matches := re.FindAllStringSubmatchIndex(src, -1)
	for i, loc := range matches {
		emit(loc)
		if loc[1] == loc[0] || (i+1 < len(matches) && matches[i+1][0] == loc[1]) {
			continue
		}
		if empty := emptyMatchAt(re, src, loc[1]); empty != nil {
			emit(empty)
		}
	}
	b.WriteString(src[last:])
	return b.String()
}

// emptyMatchAt returns the submatch indexes of an empty match of re starting
// at pos, or nil if the match re finds at pos is not empty.
func emptyMatchAt(re *regexp.Regexp, src string, pos int) []int {
	if !canMatchEmpty(re) {
		return nil
	}
	// Pin the search to pos while keeping the preceding text as context
	// for ^, \A and \b.
	pinned, err := regexp.Compile(`\A` + regexp.QuoteMeta(src[:pos]) + `(?:` + re.String() + `)`)
	if err != nil {
		return nil
	}
	loc := pinned.FindStringSubmatchIndex(src)
	if loc == nil || loc[1] != pos {
		return nil
	}
	loc[0] = pos
	return loc
}

// canMatchEmpty reports whether re could match the empty string somewhere,
// treating every zero-width assertion as satisfiable.
func canMatchEmpty(re *regexp.Regexp) bool {
	parsed, err := syntax.Parse(re.String(), syntax.Perl)
	if err != nil {
		return false
	}
	return nullable(parsed)
}

func nullable(r *syntax.Regexp) bool {
	switch r.Op {
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText,
		syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary,
		syntax.OpStar, syntax.OpQuest:
		return true
	case syntax.OpRepeat:
		return r.Min == 0 || nullable(r.Sub[0])
	case syntax.OpPlus, syntax.OpCapture:
		return nullable(r.Sub[0])
	case syntax.OpConcat:
		for _, sub := range r.Sub {
			if !nullable(sub) {
				return false
			}
		}
		return true
	case syntax.OpAlternate:
		for _, sub := range r.Sub {
			if nullable(sub) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
