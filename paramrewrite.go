package reldb

import (
	"fmt"
	"strconv"
	"strings"
)

// argRef names where the value for one driver argument, in argument
// order, should come from: either an original `?`/`$N` positional slot,
// or a `:name`/`@name` named slot.
type argRef struct {
	positional bool
	index      int    // valid when positional
	name       string // valid when !positional
}

// rewritePlan is the result of rewriting one statement's SQL for a
// target Capability: the SQL text ready for the backend's native
// prepare call, plus the ordered list of where each driver argument's
// value comes from: one entry per `?` placeholder, or one per distinct
// `$N` when a repeated name reuses its `$N`.
type rewritePlan struct {
	sql  string
	args []argRef
}

// rewriteParameters implements the parameter-style translation: it
// scans sql left-to-right, treating single- and double-quoted runs as
// opaque, and replaces every `?`, `$N`, `@name`, or `:name` occurrence
// outside quotes with capa's native placeholder spelling. Go's regexp
// package is RE2-based and has no lookahead, so this is a hand-written
// scanner rather than a single regular expression.
//
// When capa.NamedParamsNative is true and enhanced is false, named and
// `?` forms are left untouched (the backend accepts them directly);
// otherwise every occurrence is rewritten to capa.Placeholder's style.
func rewriteParameters(sql string, capa Capability, enhanced bool) (rewritePlan, error) {
	if capa.NamedParamsNative && !enhanced {
		return rewritePlan{sql: sql, args: identityArgs(sql)}, nil
	}

	var out strings.Builder
	var args []argRef
	nameIndex := make(map[string]int)
	nextPositional := 0

	runes := []rune(sql)
	n := len(runes)
	i := 0
	for i < n {
		c := runes[i]

		if c == '\'' || c == '"' {
			quote := c
			out.WriteRune(c)
			i++
			for i < n {
				out.WriteRune(runes[i])
				if runes[i] == quote {
					i++
					break
				}
				i++
			}
			continue
		}

		switch {
		case c == '?':
			nextPositional++
			args = append(args, argRef{positional: true, index: nextPositional})
			out.WriteString(placeholderText(capa.Placeholder, len(args)))
			i++

		case c == '$' && i+1 < n && isDigit(runes[i+1]):
			j := i + 1
			for j < n && isDigit(runes[j]) {
				j++
			}
			idx, err := strconv.Atoi(string(runes[i+1 : j]))
			if err != nil {
				return rewritePlan{}, newErr(KindBindingError, "malformed $N placeholder in SQL")
			}
			args = append(args, argRef{positional: true, index: idx})
			out.WriteString(placeholderText(capa.Placeholder, len(args)))
			i = j

		case (c == ':' || c == '@') && i+1 < n && isIdentStart(runes[i+1]):
			j := i + 1
			for j < n && isIdentPart(runes[j]) {
				j++
			}
			name := string(runes[i+1 : j])
			existing, seen := nameIndex[name]
			if seen {
				// A reused $N needs no second driver argument.
				if capa.Placeholder != StyleDollar {
					args = append(args, args[existing-1])
				}
			} else {
				args = append(args, argRef{name: name})
				existing = len(args)
				nameIndex[name] = existing
			}
			if !capa.NamedParamsNative || enhanced {
				if !capabilitySupportsNamed(capa) {
					return rewritePlan{}, newErr(KindUnsupportedBindingStyle,
						fmt.Sprintf("backend does not support named parameter :%s", name))
				}
			}
			out.WriteString(placeholderText(capa.Placeholder, existing))
			i = j

		default:
			out.WriteRune(c)
			i++
		}
	}

	return rewritePlan{sql: out.String(), args: args}, nil
}

// capabilitySupportsNamed reports whether a rewrite target can express
// named parameters at all. Every target style in this core can: `?`/`$N`
// styles simply resolve the name to a positional slot at bind time, so
// the only hard failure is a backend with neither named-native support
// nor a positional rewrite target, which does not occur among the
// registered drivers; kept as an explicit check so a future driver with
// a stricter contract fails loudly instead of silently mis-binding.
func capabilitySupportsNamed(capa Capability) bool {
	return true
}

// placeholderText renders the nth (1-based) placeholder in a style.
func placeholderText(style PlaceholderStyle, n int) string {
	switch style {
	case StyleDollar:
		return "$" + strconv.Itoa(n)
	case StyleQuestion:
		return "?"
	case StyleNamed:
		return "?"
	default:
		return "?"
	}
}

// identityArgs builds a 1..n positional arg-ref list for SQL left
// completely untouched (the named-native, non-enhanced fast path).
// It still needs to walk the string to find `?`/`:name`/`@name`
// occurrences so the Statement layer knows which binding table slot
// feeds which native placeholder.
func identityArgs(sql string) []argRef {
	var args []argRef
	nameIndex := make(map[string]int)
	nextPositional := 0
	runes := []rune(sql)
	n := len(runes)
	i := 0
	for i < n {
		c := runes[i]
		if c == '\'' || c == '"' {
			quote := c
			i++
			for i < n {
				if runes[i] == quote {
					i++
					break
				}
				i++
			}
			continue
		}
		switch {
		case c == '?':
			nextPositional++
			args = append(args, argRef{positional: true, index: nextPositional})
			i++
		case (c == ':' || c == '@') && i+1 < n && isIdentStart(runes[i+1]):
			j := i + 1
			for j < n && isIdentPart(runes[j]) {
				j++
			}
			name := string(runes[i+1 : j])
			if existing, ok := nameIndex[name]; ok {
				args = append(args, args[existing-1])
			} else {
				args = append(args, argRef{name: name})
				nameIndex[name] = len(args)
			}
			i = j
		default:
			i++
		}
	}
	return args
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdentPart(r rune) bool  { return isIdentStart(r) || isDigit(r) }
