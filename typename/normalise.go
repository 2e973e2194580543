// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package typename - turn metadata type expressions into decoder names
//
// Metadata declares types relative to the runtime's generic
// configuration, e.g. "AccountInfo<T::Index, T::AccountData>".  Each
// placeholder such as "T::Index" is replaced with the concrete name
// the embedding application uses, giving "AccountInfo<AccountIndex,
// AccountData>".  Unknown tokens are left alone so that the registry
// lookup fails instead of picking the wrong decoder.
package typename

import (
	"strings"

	"github.com/bitmark-inc/statedecoder/fault"
)

// Rule - a literal replacement of one placeholder token
type Rule struct {
	Placeholder string `gluamapper:"placeholder" json:"placeholder"`
	Concrete    string `gluamapper:"concrete" json:"concrete"`
}

// Normaliser - ordered set of replacement rules
//
// a nil *Normaliser only strips line breaks
type Normaliser struct {
	rules []Rule
}

// New - validate and copy a rule set
//
// a concrete name must not contain any placeholder token or a line
// break, otherwise normalising twice could differ from normalising
// once.  A concrete name that is not shorter than its token must not
// overlap any token at either end, so every replacement either
// shortens the name or leaves text that can never match again and
// repeated passes always settle.
func New(rules []Rule) (*Normaliser, error) {
	n := &Normaliser{
		rules: make([]Rule, len(rules)),
	}
	for _, r := range rules {
		if "" == r.Placeholder {
			return nil, fault.ErrEmptyPlaceholder
		}
	}
	for i, r := range rules {
		if strings.ContainsAny(r.Concrete, "\r\n") {
			return nil, fault.ErrInvalidConcrete
		}
		for _, other := range rules {
			if strings.Contains(r.Concrete, other.Placeholder) {
				return nil, fault.ErrInvalidPlaceholder
			}
			if len(r.Concrete) >= len(r.Placeholder) && overlaps(r.Concrete, other.Placeholder) {
				return nil, fault.ErrOverlappingPlaceholder
			}
		}
		n.rules[i] = r
	}
	return n, nil
}

// true if some surrounding text could join with concrete to form token
func overlaps(concrete string, token string) bool {
	if strings.Contains(token, concrete) {
		return true
	}
	for k := 1; k < len(concrete); k += 1 {
		if strings.HasPrefix(token, concrete[k:]) || strings.HasSuffix(token, concrete[:k]) {
			return true
		}
	}
	return false
}

// Rules - a copy of the rules in application order
func (n *Normaliser) Rules() []Rule {
	if nil == n {
		return nil
	}
	rules := make([]Rule, len(n.rules))
	copy(rules, n.rules)
	return rules
}

// Normalise - convert a raw type expression to its canonical name
func (n *Normaliser) Normalise(raw string) string {
	s := strings.ReplaceAll(raw, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	if nil == n {
		return s
	}

	// a replacement can join text to form a new token so repeat
	// until nothing changes, New ensures this terminates
	for {
		previous := s
		for _, r := range n.rules {
			s = strings.ReplaceAll(s, r.Placeholder, r.Concrete)
		}
		if previous == s {
			return s
		}
	}
}
