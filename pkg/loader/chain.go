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

package loader

import (
	"fmt"
	"reflect"
	"strings"

	"mosn.io/pkg/log"
)

// DefaultOrder is the source order used when none is configured
var DefaultOrder = []string{SourceApplication, SourceSystem}

// Chain resolves a class name by asking its sources in order.
// Java primitive names and array names are resolved after the sources,
// array components go through the chain again.
type Chain struct {
	sources []Source
	names   []string
}

// NewChain returns a chain over sources, nil sources are skipped
func NewChain(sources ...Source) *Chain {
	c := &Chain{}
	for _, s := range sources {
		if s == nil {
			continue
		}
		c.sources = append(c.sources, s)
		c.names = append(c.names, s.Name())
	}
	return c
}

// NewChainByNames looks every name up with GetSource.
func NewChainByNames(names []string) (*Chain, error) {
	if len(names) == 0 {
		names = DefaultOrder
	}
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		s, ok := GetSource(name)
		if !ok {
			return nil, fmt.Errorf("class loader source %s is not registered", name)
		}
		sources = append(sources, s)
	}
	return NewChain(sources...), nil
}

// Default returns a chain with the DefaultOrder sources
func Default() *Chain {
	return NewChain(Application(), System())
}

// Sources returns the source names in lookup order
func (c *Chain) Sources() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// ForName returns the first type bound to name
func (c *Chain) ForName(name string) (reflect.Type, error) {
	if name == "" {
		return nil, &UnknownClassError{Name: name, Sources: c.Sources()}
	}
	for _, s := range c.sources {
		if t, ok := s.Lookup(name); ok {
			if log.DefaultLogger.GetLogLevel() >= log.DEBUG {
				log.DefaultLogger.Debugf("[loader] class %s found in source %s", name, s.Name())
			}
			return t, nil
		}
	}
	if t, ok := primitiveTypes[name]; ok {
		return t, nil
	}
	if component, ok := ArrayComponent(name); ok {
		t, err := c.ForName(component)
		if err != nil {
			return nil, &UnknownClassError{Name: name, Sources: c.Sources()}
		}
		return reflect.SliceOf(t), nil
	}
	return nil, &UnknownClassError{Name: name, Sources: c.Sources()}
}

// ArrayComponent returns the component class name of an array class name,
// peeling one dimension. Both the binary form ([I, [Ljava.lang.String;) and
// the source form (java.lang.String[]) are understood.
func ArrayComponent(name string) (string, bool) {
	if strings.HasSuffix(name, "[]") {
		component := strings.TrimSuffix(name, "[]")
		return component, component != ""
	}
	if len(name) < 2 || name[0] != '[' {
		return "", false
	}
	rest := name[1:]
	switch {
	case rest[0] == '[':
		return rest, true
	case rest[0] == 'L':
		if len(rest) < 3 || rest[len(rest)-1] != ';' {
			return "", false
		}
		return rest[1 : len(rest)-1], true
	case len(rest) == 1:
		p, ok := primitiveCodes[rest[0]]
		return p, ok
	}
	return "", false
}
