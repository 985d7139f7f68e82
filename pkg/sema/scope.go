package sema

import (
	"strconv"

	"github.com/splanck/viper-sub025/pkg/ast"
)

// symbol records a resolved binding: its renamed form and inferred type.
type symbol struct {
	renamed string
	typ     ast.Type
	isArray bool
}

// scope is one lexical level of the binding stack. Program scope (index 0)
// never renames; every nested scope mints a fresh `_N` suffix per name.
type scope struct {
	names   map[string]*symbol
	counter *int // this scope's counter driving the _N suffix; each child scope starts at 0
	shared  map[string]bool
	isRoot  bool
}

func newRootScope() *scope {
	return &scope{names: make(map[string]*symbol), isRoot: true}
}

func newChildScope(parent *scope) *scope {
	counter := 0

	return &scope{
		names:   make(map[string]*symbol),
		counter: &counter,
		shared:  make(map[string]bool),
	}
}

func (s *scope) nextSuffix() int {
	n := *s.counter
	*s.counter++

	return n
}

// scopeStack is a small LIFO of active scopes, innermost last.
type scopeStack struct {
	frames []*scope
}

func (ss *scopeStack) push(s *scope) { ss.frames = append(ss.frames, s) }

func (ss *scopeStack) pop() { ss.frames = ss.frames[:len(ss.frames)-1] }

func (ss *scopeStack) top() *scope { return ss.frames[len(ss.frames)-1] }

func (ss *scopeStack) root() *scope { return ss.frames[0] }

// declare binds name in the innermost scope. Program scope keeps the
// original spelling; nested scopes mint a unique `_N` suffix unless the
// name was previously marked SHARED, in which case it resolves to the root
// binding instead of creating a new one.
func (ss *scopeStack) declare(name string, typ ast.Type, isArray bool) *symbol {
	top := ss.top()

	if !top.isRoot && top.shared[name] {
		return ss.lookup(name)
	}

	renamed := name
	if !top.isRoot {
		renamed = name + "_" + strconv.Itoa(top.nextSuffix())
	}

	sym := &symbol{renamed: renamed, typ: typ, isArray: isArray}
	top.names[name] = sym

	return sym
}

// lookup searches from the innermost scope outward.
func (ss *scopeStack) lookup(name string) *symbol {
	for i := len(ss.frames) - 1; i >= 0; i-- {
		if sym, ok := ss.frames[i].names[name]; ok {
			return sym
		}
	}

	return nil
}

func (ss *scopeStack) markShared(name string) {
	top := ss.top()
	if top.shared != nil {
		top.shared[name] = true
	}
}

