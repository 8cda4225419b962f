/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package denylist holds the class names that must never be instantiated
// while reading an object stream.
package denylist

// defaultEntries are gadget classes known to execute code when deserialized.
// Entries are kept byte for byte, including the leading space of the
// ObjectFactory entry, so that matching stays exact.
var defaultEntries = []string{
	"org.apache.commons.collections.functors.ChainedTransformer.transform",
	"org.apache.commons.collections.functors.InvokerTransformer",
	"org.apache.commons.collections.functors.InstantiateTransformer",
	"org.apache.commons.collections4.functors.InvokerTransformer",
	"org.apache.commons.collections4.functors.InstantiateTransformer",
	"org.codehaus.groovy.runtime.ConvertedClosure",
	"org.codehaus.groovy.runtime.MethodClosure",
	" org.springframework.beans.factory.ObjectFactory",
	"xalan.internal.xsltc.trax.TemplatesImpl",
}

// Denylist is an immutable, ordered set of class names.
// A Denylist is safe for concurrent use.
type Denylist struct {
	entries []string
	set     map[string]struct{}
}

var defaultList = New(defaultEntries...)

// Default returns the compiled-in denylist.
func Default() *Denylist {
	return defaultList
}

// New builds a denylist from entries. Duplicates are dropped, the first
// occurrence keeps its position.
func New(entries ...string) *Denylist {
	d := &Denylist{
		entries: make([]string, 0, len(entries)),
		set:     make(map[string]struct{}, len(entries)),
	}
	d.add(entries)
	return d
}

func (d *Denylist) add(entries []string) {
	for _, e := range entries {
		if _, ok := d.set[e]; ok {
			continue
		}
		d.set[e] = struct{}{}
		d.entries = append(d.entries, e)
	}
}

// With returns a new denylist holding d's entries followed by extra.
func (d *Denylist) With(extra ...string) *Denylist {
	if d == nil {
		return New(extra...)
	}
	merged := make([]string, 0, len(d.entries)+len(extra))
	merged = append(merged, d.entries...)
	merged = append(merged, extra...)
	return New(merged...)
}

// Contains reports whether name is denylisted. Matching is exact and case sensitive.
func (d *Denylist) Contains(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.set[name]
	return ok
}

// Entries returns a copy of the entries in their original order.
func (d *Denylist) Entries() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of entries.
func (d *Denylist) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
