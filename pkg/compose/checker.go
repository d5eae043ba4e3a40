package compose

import (
	"github.com/pkg/errors"
)

type opProfile struct {
	sigs        []Signature
	chainOn     string
	replaceOnly bool
	noop        bool
}

// SignatureChecker is a ready-made Owner implementation comparing declared
// step parameters against per-operation expectations. Owners with more
// specific needs can embed it and override AnalyseFunction.
type SignatureChecker struct {
	alias    string
	profiles map[string]*opProfile
}

// NewSignatureChecker creates a checker using alias in place of "self" when
// normalizing signatures.
func NewSignatureChecker(alias string) *SignatureChecker {
	return &SignatureChecker{
		alias:    alias,
		profiles: make(map[string]*opProfile),
	}
}

// Operation declares the accepted signatures and the chain parameter of an
// operation. Parameter lists are normalized with the checker alias.
func (c *SignatureChecker) Operation(name, chainOn string, params ...[]Param) *SignatureChecker {
	profile := c.profile(name)
	profile.chainOn = chainOn

	for _, list := range params {
		profile.sigs = append(profile.sigs, NormalizeSignature(list, c.alias))
	}

	return c
}

// ReplaceOnly marks operations accepting nothing but whole replacements.
func (c *SignatureChecker) ReplaceOnly(names ...string) *SignatureChecker {
	for _, name := range names {
		c.profile(name).replaceOnly = true
	}

	return c
}

// NoOp marks operations whose base step does nothing, so that the first
// prepend or append collapses into a plain replacement.
func (c *SignatureChecker) NoOp(names ...string) *SignatureChecker {
	for _, name := range names {
		c.profile(name).noop = true
	}

	return c
}

// SelfAlias implements Owner.
func (c *SignatureChecker) SelfAlias() string { return c.alias }

// AnalyseFunction implements Owner. It validates the step parameters
// against the declared signatures of the operation and may collapse a
// modification of a no-op base into a replacement.
func (c *SignatureChecker) AnalyseFunction(opName string, step Step, d Directive) (Directive, []Signature, string, error) {
	profile, ok := c.profiles[opName]
	if !ok {
		return d, nil, "", errors.Wrapf(ErrUnknownOperation, "no signature declared for operation %s", opName)
	}

	if profile.replaceOnly && !d.IsReplace() {
		return d, nil, "", errors.Wrapf(ErrReplaceOnly, "operation %s cannot take directive %q", opName, d)
	}

	normalized := NormalizeSignature(step.Params, c.alias)

	matched := false
	for _, sig := range profile.sigs {
		if sig.Equal(normalized) {
			matched = true

			break
		}
	}

	if !matched {
		return d, nil, "", errors.Wrapf(ErrSignatureMismatch,
			"operation %s expects one of %v, got %v", opName, profile.sigs, normalized)
	}

	if profile.noop && (d.kind == prependKind || d.kind == appendKind) {
		// The base does nothing: stacking around it is a replacement. Once
		// replaced the base is no longer a no-op.
		profile.noop = false
		d = Replace()
	}

	return d, profile.sigs, profile.chainOn, nil
}

func (c *SignatureChecker) profile(name string) *opProfile {
	profile, ok := c.profiles[name]
	if !ok {
		profile = &opProfile{}
		c.profiles[name] = profile
	}

	return profile
}
