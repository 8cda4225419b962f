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

// Package resolver guards class resolution of object streams: denylisted
// class names are refused before any class loader is consulted.
package resolver

import (
	"errors"
	"reflect"

	"mosn.io/pkg/log"

	"mosn.io/deserguard/pkg/denylist"
	ilog "mosn.io/deserguard/pkg/log"
	"mosn.io/deserguard/pkg/loader"
	"mosn.io/deserguard/pkg/metrics"
	"mosn.io/deserguard/pkg/types"
)

// Resolver is the guarded types.TypeResolver.
// It holds no mutable state and may be shared by goroutines.
type Resolver struct {
	denylist *denylist.Denylist
	loader   types.ClassLoader
	stats    *metrics.ResolverStats
}

// Option configures a Resolver
type Option func(r *Resolver)

// WithDenylist replaces the default denylist
func WithDenylist(d *denylist.Denylist) Option {
	return func(r *Resolver) {
		r.denylist = d
	}
}

// WithLoader replaces the default class loader chain
func WithLoader(l types.ClassLoader) Option {
	return func(r *Resolver) {
		r.loader = l
	}
}

// WithMetrics sets the labels of the resolver metrics
func WithMetrics(labels map[string]string) Option {
	return func(r *Resolver) {
		r.stats = metrics.NewResolverStats(labels)
	}
}

// New returns a resolver using the default denylist and loader chain
// unless overridden by opts.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.denylist == nil {
		r.denylist = denylist.Default()
	}
	if r.loader == nil {
		r.loader = loader.Default()
	}
	if r.stats == nil {
		r.stats = metrics.NewResolverStats(nil)
	}
	r.stats.Denylist.Update(int64(r.denylist.Len()))
	return r
}

// Denylist returns the denylist the resolver checks
func (r *Resolver) Denylist() *denylist.Denylist {
	return r.denylist
}

// Resolve returns the type to instantiate for osc.
func (r *Resolver) Resolve(osc *types.ObjectStreamClass) (reflect.Type, error) {
	r.stats.Total.Inc(1)

	if osc == nil || osc.Name == "" {
		r.stats.NotFound.Inc(1)
		return nil, &ClassNotFoundError{
			Desc:  osc,
			Cause: &loader.UnknownClassError{},
		}
	}

	if class, denied := r.denied(osc.Name); denied {
		r.stats.Blocked.Inc(1)
		log.DefaultLogger.Alertf(ilog.AlertBlocked, "[resolver] refused to deserialize %s", osc)
		return nil, &BlockedError{Name: osc.Name, Class: class}
	}

	typ, err := r.loader.ForName(osc.Name)
	if err != nil {
		r.stats.NotFound.Inc(1)
		if !errors.Is(err, loader.ErrUnknownClass) {
			log.DefaultLogger.Warnf("[resolver] class loader failed for %s: %v", osc.Name, err)
		}
		return nil, &ClassNotFoundError{Desc: osc, Cause: err}
	}

	r.stats.Success.Inc(1)
	return typ, nil
}

// denied returns the denylisted class named by name. An array descriptor is
// denied when any of its component classes is, each compared exactly.
func (r *Resolver) denied(name string) (string, bool) {
	for {
		if r.denylist.Contains(name) {
			return name, true
		}
		component, ok := loader.ArrayComponent(name)
		if !ok {
			return "", false
		}
		name = component
	}
}
