// Package filter compiles boolean expressions over links.
//
// Expressions use the expr language (https://expr-lang.org) with the
// link's fields exposed as top-level variables (Slug, Redirect, Type,
// Unlisted, OwnerID, CreatedAt, Title, ...) plus helper functions for
// dates, strings, and ownership checks:
//
//	Type == "server" and not Unlisted
//	ownedBy("778344417767396419") and daysSince(CreatedAt) > 365
//	contains(Title, "music") or hasEditor("161285853010395136")
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/dsctl/dsc"
)

// Filter is a compiled link predicate, safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable filter
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(staticEnvironment()),
		expr.AllowUndefinedVariables(), // Link fields are injected at runtime
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the original expression text
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a single link. A link that makes
// the expression error evaluates to false.
func (f *Filter) Match(link dsc.Link) bool {
	result, err := expr.Run(f.program, runtimeEnvironment(link))
	if err != nil {
		return false
	}

	// Result is guaranteed to be bool due to AsBool() at compile time
	return result.(bool)
}

// Apply returns the links matching the filter, preserving input order.
func (f *Filter) Apply(links []dsc.Link) []dsc.Link {
	matched := make([]dsc.Link, 0, len(links))
	for _, link := range links {
		if f.Match(link) {
			matched = append(matched, link)
		}
	}
	return matched
}
