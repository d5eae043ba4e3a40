package compose

import "strings"

// ParamKind describes how a formal parameter receives its arguments.
type ParamKind int

const (
	// Positional is a regular named parameter.
	Positional ParamKind = iota
	// Variadic collects the remaining positional arguments.
	Variadic
	// KeywordVariadic collects the remaining named arguments.
	KeywordVariadic
)

// Param is one declared formal parameter of a step function.
type Param struct {
	Name string
	Kind ParamKind
}

// Params builds a parameter list from names. A leading "*" marks a variadic
// parameter and a leading "**" a keyword-variadic one.
func Params(names ...string) []Param {
	params := make([]Param, 0, len(names))

	for _, name := range names {
		switch {
		case strings.HasPrefix(name, "**"):
			params = append(params, Param{Name: strings.TrimPrefix(name, "**"), Kind: KeywordVariadic})
		case strings.HasPrefix(name, "*"):
			params = append(params, Param{Name: strings.TrimPrefix(name, "*"), Kind: Variadic})
		default:
			params = append(params, Param{Name: name})
		}
	}

	return params
}

// Signature is the canonical token sequence of a parameter list. Two
// functions are interchangeable steps iff their signatures are equal.
type Signature []string

// NormalizeSignature reduces a parameter list to its canonical tokens.
// A first parameter named "self" is replaced by the owner alias when one is
// provided, variadic parameters keep their marker prefix and every other
// parameter passes through as its bare name.
func NormalizeSignature(params []Param, alias string) Signature {
	sig := make(Signature, 0, len(params))

	for _, param := range params {
		switch {
		case alias != "" && param.Name == "self":
			sig = append(sig, alias)
		case param.Kind == Variadic:
			sig = append(sig, "*"+param.Name)
		case param.Kind == KeywordVariadic:
			sig = append(sig, "**"+param.Name)
		default:
			sig = append(sig, param.Name)
		}
	}

	return sig
}

// Equal reports whether both signatures hold the same token sequence.
func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}

	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}

	return true
}

// Key returns a stable string form usable as a cache key.
func (s Signature) Key() string {
	return strings.Join(s, ",")
}
