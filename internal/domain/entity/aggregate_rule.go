package entity

import (
	"strings"

	"flagpole/internal/errors"
)

// ErrUnknownAggregateRule is returned by ParseAggregateRule for unregistered names.
var ErrUnknownAggregateRule = errors.New("unknown aggregate rule")

// AggregateRule reduces a whole flag set to one boolean.
// Rules must be pure: GetFlag recomputes on every call.
type AggregateRule func(f *MultipleBinaryFlag) bool

// Built-in aggregate rules.
var (
	// AllSet is true when every bit is set. An empty set is vacuously true.
	AllSet AggregateRule = func(f *MultipleBinaryFlag) bool {
		return f.SetCount() == f.Len()
	}

	// AnySet is true when at least one bit is set.
	AnySet AggregateRule = func(f *MultipleBinaryFlag) bool {
		return f.SetCount() > 0
	}

	// FirstBit mirrors bit 0. An empty set is false.
	FirstBit AggregateRule = func(f *MultipleBinaryFlag) bool {
		return f.Len() > 0 && f.test(0)
	}

	// Majority is true when strictly more than half the bits are set.
	Majority AggregateRule = func(f *MultipleBinaryFlag) bool {
		return f.SetCount()*2 > f.Len()
	}
)

var aggregateRules = map[string]AggregateRule{
	"all":      AllSet,
	"any":      AnySet,
	"first":    FirstBit,
	"majority": Majority,
}

// ParseAggregateRule resolves a rule by its config name (all, any, first, majority).
// An empty name selects AllSet.
func ParseAggregateRule(name string) (AggregateRule, error) {
	if strings.TrimSpace(name) == "" {
		return AllSet, nil
	}

	rule, ok := aggregateRules[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAggregateRule, "%q", name)
	}

	return rule, nil
}
