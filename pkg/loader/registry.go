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
	"sync"

	"go.uber.org/atomic"
	"mosn.io/pkg/log"
)

// Source is one place a class name can be looked up in.
type Source interface {
	Name() string
	Lookup(name string) (reflect.Type, bool)
}

// Registry is a Source backed by an explicit name -> type table.
type Registry struct {
	name   string
	mutex  sync.RWMutex
	types  map[string]reflect.Type
	frozen *atomic.Bool
}

// NewRegistry returns an empty registry
func NewRegistry(name string) *Registry {
	return &Registry{
		name:   name,
		types:  make(map[string]reflect.Type, 32),
		frozen: atomic.NewBool(false),
	}
}

func (r *Registry) Name() string {
	return r.name
}

func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Register binds name to the type of sample. Pointers are dereferenced,
// so both T{} and &T{} register T.
func (r *Registry) Register(name string, sample interface{}) error {
	if sample == nil {
		return fmt.Errorf("register %s: nil sample", name)
	}
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return r.RegisterType(name, t)
}

// RegisterType binds name to typ
func (r *Registry) RegisterType(name string, typ reflect.Type) error {
	if name == "" || typ == nil {
		return fmt.Errorf("register into %s: empty name or type", r.name)
	}
	if r.frozen.Load() {
		return ErrFrozen
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if old, ok := r.types[name]; ok && old != typ {
		log.DefaultLogger.Warnf("[loader] [%s] class %s rebound from %s to %s", r.name, name, old, typ)
	}
	r.types[name] = typ
	return nil
}

// Unregister removes name, it reports whether name was present
func (r *Registry) Unregister(name string) (bool, error) {
	if r.frozen.Load() {
		return false, ErrFrozen
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	_, ok := r.types[name]
	delete(r.types, name)
	return ok, nil
}

// Freeze rejects any later change to the registry
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// Names returns the registered class names, unordered
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}
