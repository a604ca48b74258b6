// Package templ implements the minimal conditional template language used
// to assemble kernel source text from per-path fragments.
//
// Templates are plain text with two constructs:
//
//   - $name placeholders, substituted from a symbol map; unresolved
//     placeholders pass through unchanged so partially-specialized
//     templates stay inspectable.
//   - line-oriented directives #if NAME, #ifnot NAME, #elseif NAME, #else
//     and #endif, selecting lines by a boolean configuration map.
//
// The language is intentionally tiny: no loops, no includes. It exists to
// select among a handful of numeric execution paths, not for general
// templating.
package templ

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// SyntaxError reports unbalanced or malformed directives. It is raised at
// compile time, never at render time.
type SyntaxError struct {
	Line int // 1-based line number in the template text
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template syntax error at line %d: %s", e.Line, e.Msg)
}

var placeholderRe = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*`)

// node is one parsed template element: either a literal line or a
// conditional block.
type node struct {
	line     string
	branches []branch // nil for literal lines
}

type branch struct {
	name   string // empty for #else
	negate bool
	body   []node
}

// Generator renders a compiled template against a symbol and configuration
// map. Generators are immutable and safe for concurrent use.
type Generator struct {
	nodes []node
}

// Compile tokenizes a template once, validating directive balance. The
// result is memoized in the process-wide default cache keyed by the exact
// template text.
func Compile(text string) (*Generator, error) {
	return defaultCache.Compile(text)
}

// Cache memoizes compiled generators by exact template text. The cache is
// append-only and never invalidated; templates must therefore be pure
// functions of their text. Safe for concurrent use.
type Cache struct {
	mu   sync.Mutex
	gens map[string]*Generator
}

// NewCache creates an empty generator cache.
func NewCache() *Cache {
	return &Cache{gens: make(map[string]*Generator)}
}

var defaultCache = NewCache()

// Compile returns the cached generator for text, compiling on first use.
func (c *Cache) Compile(text string) (*Generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.gens[text]; ok {
		return g, nil
	}
	g, err := compile(text)
	if err != nil {
		return nil, err
	}
	c.gens[text] = g
	return g, nil
}

type parser struct {
	lines []string
	pos   int
}

func compile(text string) (*Generator, error) {
	p := &parser{lines: strings.Split(text, "\n")}
	nodes, err := p.block()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.lines) {
		// block returned early on a dangling #elseif/#else/#endif.
		return nil, &SyntaxError{Line: p.pos + 1, Msg: "directive outside #if block"}
	}
	return &Generator{nodes: nodes}, nil
}

// block parses literal lines and nested conditionals until EOF or until a
// branch-terminating directive, which it leaves for the caller.
func (p *parser) block() ([]node, error) {
	var nodes []node
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		dir, arg := directive(line)
		switch dir {
		case "":
			nodes = append(nodes, node{line: line})
			p.pos++
		case "#if", "#ifnot":
			cond, err := p.conditional(dir, arg)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, cond)
		default:
			// Branch terminator; the enclosing conditional (or compile,
			// for a dangling directive) deals with it.
			return nodes, nil
		}
	}
	return nodes, nil
}

func (p *parser) conditional(dir, arg string) (node, error) {
	start := p.pos
	if arg == "" {
		return node{}, &SyntaxError{Line: start + 1, Msg: dir + " requires a name"}
	}
	cond := node{branches: []branch{{name: arg, negate: dir == "#ifnot"}}}
	p.pos++

	sawElse := false
	for {
		body, err := p.block()
		if err != nil {
			return node{}, err
		}
		cond.branches[len(cond.branches)-1].body = body

		if p.pos >= len(p.lines) {
			return node{}, &SyntaxError{Line: start + 1, Msg: "unterminated #if"}
		}
		next, nextArg := directive(p.lines[p.pos])
		switch next {
		case "#endif":
			p.pos++
			return cond, nil
		case "#elseif":
			if sawElse {
				return node{}, &SyntaxError{Line: p.pos + 1, Msg: "#elseif after #else"}
			}
			if nextArg == "" {
				return node{}, &SyntaxError{Line: p.pos + 1, Msg: "#elseif requires a name"}
			}
			cond.branches = append(cond.branches, branch{name: nextArg})
			p.pos++
		case "#else":
			if sawElse {
				return node{}, &SyntaxError{Line: p.pos + 1, Msg: "duplicate #else"}
			}
			sawElse = true
			cond.branches = append(cond.branches, branch{})
			p.pos++
		}
	}
}

// directive splits a line into its directive keyword and argument, or
// returns "" for a literal line. Directives are recognized by leading
// whitespace plus '#'.
func directive(line string) (string, string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", ""
	}
	keyword, arg, _ := strings.Cut(trimmed, " ")
	switch keyword {
	case "#if", "#ifnot", "#elseif", "#else", "#endif":
		return keyword, strings.TrimSpace(arg)
	}
	return "", ""
}

// Render assembles the template against a symbol substitution map and a
// boolean configuration. Names absent from config evaluate to false.
// Substitution is pure string interpolation; a placeholder standing alone
// on a line propagates its indentation to every line of a multi-line
// replacement.
func (g *Generator) Render(symbols map[string]string, config map[string]bool) string {
	var out []string
	renderNodes(g.nodes, symbols, config, &out)
	return strings.Join(out, "\n")
}

func renderNodes(nodes []node, symbols map[string]string, config map[string]bool, out *[]string) {
	for _, n := range nodes {
		if n.branches == nil {
			*out = append(*out, substitute(n.line, symbols))
			continue
		}
		for _, br := range n.branches {
			taken := br.name == "" || config[br.name] != br.negate
			if taken {
				renderNodes(br.body, symbols, config, out)
				break
			}
		}
	}
}

func substitute(line string, symbols map[string]string) string {
	trimmed := strings.TrimSpace(line)
	if placeholderRe.MatchString(trimmed) && trimmed == placeholderRe.FindString(trimmed) {
		// Placeholder alone on its line: preserve indentation across a
		// multi-line replacement.
		if repl, ok := symbols[trimmed[1:]]; ok {
			indent := line[:strings.Index(line, trimmed)]
			parts := strings.Split(repl, "\n")
			for i, p := range parts {
				parts[i] = indent + p
			}
			return strings.Join(parts, "\n")
		}
		return line
	}
	return placeholderRe.ReplaceAllStringFunc(line, func(tok string) string {
		if repl, ok := symbols[tok[1:]]; ok {
			return repl
		}
		return tok
	})
}
