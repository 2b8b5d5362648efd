package model

import (
	"slices"
	"strings"
)

// Tags is a set of tags stored as a sorted slice without duplicates.
type Tags []string

// NewTags builds a tag set from arbitrary input.
func NewTags(tags ...string) Tags {
	if len(tags) == 0 {
		return nil
	}
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}

// Has reports whether tag is in the set.
func (t Tags) Has(tag string) bool {
	_, ok := slices.BinarySearch(t, tag)
	return ok
}

// Add returns a new set containing tag. The receiver is left untouched.
func (t Tags) Add(tag string) Tags {
	i, ok := slices.BinarySearch(t, tag)
	if ok {
		return slices.Clone(t)
	}
	out := make(Tags, 0, len(t)+1)
	out = append(out, t[:i]...)
	out = append(out, tag)
	return append(out, t[i:]...)
}

// String returns the tags joined by semicolons.
func (t Tags) String() string {
	return strings.Join(t, ";")
}

// ParseTags is the inverse of Tags.String.
func ParseTags(s string) Tags {
	if s == "" {
		return nil
	}
	return NewTags(strings.Split(s, ";")...)
}
