// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package format

import (
	"fmt"
	"slices"
)

// Registry is an ordered list of descriptors. Registration order is
// evaluation order: earlier descriptors win when several could match.
type Registry struct {
	descriptors []Descriptor
	ids         map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[string]int),
	}
}

func (r *Registry) Add(d Descriptor) error {
	if d.ID == "" {
		return fmt.Errorf("descriptor has no id")
	}
	if d.Detect == nil || d.Extract == nil {
		return fmt.Errorf("descriptor %q: detect and extract are required", d.ID)
	}
	if _, ok := r.ids[d.ID]; ok {
		return fmt.Errorf("descriptor %q already registered", d.ID)
	}

	r.ids[d.ID] = len(r.descriptors)
	r.descriptors = append(r.descriptors, d)
	return nil
}

func (r *Registry) Len() int {
	return len(r.descriptors)
}

// Descriptors returns a copy of the registered descriptors in evaluation order.
func (r *Registry) Descriptors() []Descriptor {
	return slices.Clone(r.descriptors)
}

func (r *Registry) Lookup(id string) (Descriptor, bool) {
	idx, ok := r.ids[id]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[idx], true
}

// Match evaluates the descriptors in order against path and returns the
// first one whose predicate holds, or nil when none does.
func (r *Registry) Match(path, baseName string) (*Descriptor, error) {
	for i := range r.descriptors {
		d := &r.descriptors[i]
		if !d.AppliesTo(baseName) {
			continue
		}

		ok, err := d.Detect(path)
		if IsFatal(err) {
			return nil, err
		}
		if ok && err == nil {
			return d, nil
		}
	}
	return nil, nil
}

// Filter returns a registry holding only the descriptors with the given ids,
// in the original order. No ids means all descriptors.
func (r *Registry) Filter(ids ...string) (*Registry, error) {
	if len(ids) == 0 {
		return r, nil
	}

	for _, id := range ids {
		if _, ok := r.ids[id]; !ok {
			return nil, fmt.Errorf("unknown format: %s", id)
		}
	}

	filtered := NewRegistry()
	for _, d := range r.descriptors {
		if slices.Contains(ids, d.ID) {
			_ = filtered.Add(d)
		}
	}
	return filtered, nil
}
