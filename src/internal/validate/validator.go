package validate

import (
	"slices"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
)

// Options toggles the individual checks.
type Options struct {
	CheckSyntax        bool
	CheckTLD           bool
	CheckCritical      bool
	CheckFalsePositive bool
	// StrictTLD accepts only TLDs present in the policy table.
	StrictTLD bool
}

// DefaultOptions enables every check with lenient TLD matching.
func DefaultOptions() Options {
	return Options{
		CheckSyntax:        true,
		CheckTLD:           true,
		CheckCritical:      true,
		CheckFalsePositive: true,
	}
}

// Reason identifies the check that rejected a domain.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonEmpty
	ReasonFalsePositive
	ReasonSyntax
	ReasonTLD
	ReasonCritical
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "valid"
	case ReasonEmpty:
		return "Empty domain"
	case ReasonFalsePositive:
		return "False positive"
	case ReasonSyntax:
		return "Invalid syntax"
	case ReasonTLD:
		return "Invalid TLD"
	case ReasonCritical:
		return "Critical domain"
	}
	return "Unknown error"
}

// MarshalText renders reasons in JSON responses.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Rejection is a domain that failed validation.
type Rejection struct {
	Domain string `json:"domain"`
	Reason Reason `json:"reason"`
}

func (r Rejection) String() string {
	return r.Reason.String() + ": " + r.Domain
}

// Validator checks domains against a policy.
type Validator struct {
	opts   Options
	policy *Policy
}

// New creates a validator. A nil policy selects DefaultPolicy.
func New(opts Options, policy *Policy) *Validator {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Validator{opts: opts, policy: policy}
}

// Policy returns the tables used by the validator.
func (v *Validator) Policy() *Policy {
	return v.policy
}

// Validate runs the enabled checks and returns the first failing reason.
func (v *Validator) Validate(domain string) (bool, Reason) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false, ReasonEmpty
	}

	if v.opts.CheckFalsePositive && v.policy.IsFalsePositive(domain) {
		return false, ReasonFalsePositive
	}
	if v.opts.CheckSyntax && !IsValidSyntax(domain) {
		return false, ReasonSyntax
	}
	if v.opts.CheckTLD && !v.policy.HasValidTLD(domain, v.opts.StrictTLD) {
		return false, ReasonTLD
	}
	if v.opts.CheckCritical && v.policy.IsCritical(domain) {
		return false, ReasonCritical
	}
	return true, ReasonNone
}

// ValidateSet partitions domains into the valid set and the rejections,
// sorted by domain.
func (v *Validator) ValidateSet(domains merge.Set) (merge.Set, []Rejection) {
	valid := make(merge.Set, len(domains))
	var rejected []Rejection

	for d := range domains {
		if ok, reason := v.Validate(d); ok {
			valid.Add(d)
		} else {
			rejected = append(rejected, Rejection{Domain: d, Reason: reason})
		}
	}

	slices.SortFunc(rejected, func(a, b Rejection) int {
		return strings.Compare(a.Domain, b.Domain)
	})
	return valid, rejected
}

// ValidateSet validates domains against the built-in policy.
func ValidateSet(domains merge.Set, opts Options) (merge.Set, []Rejection) {
	return New(opts, nil).ValidateSet(domains)
}
