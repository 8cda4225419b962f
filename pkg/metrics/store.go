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

package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	gometrics "github.com/rcrowley/go-metrics"

	"mosn.io/deserguard/pkg/types"
)

const MaxLabelCount = 10

var (
	defaultStore          *store
	ErrLabelCountExceeded = fmt.Errorf("label count exceeded, max is %d", MaxLabelCount)
)

// stats memory store
type store struct {
	disabled bool

	metrics map[string]types.Metrics
	mutex   sync.RWMutex
}

// metrics is a wrapper of go-metrics registry, is an implement of types.Metrics
type metrics struct {
	typ    string
	labels map[string]string

	labelKeys []string
	labelVals []string

	registry gometrics.Registry
}

func init() {
	defaultStore = &store{
		metrics: make(map[string]types.Metrics, 16),
	}
}

// SetDisabled makes every later NewMetrics return a NilMetrics
func SetDisabled(disabled bool) {
	defaultStore.mutex.Lock()
	defer defaultStore.mutex.Unlock()
	defaultStore.disabled = disabled
}

// NewMetrics returns a metrics
// Same (type + labels) pair will leading to the same Metrics instance
func NewMetrics(typ string, labels map[string]string) (types.Metrics, error) {
	if len(labels) > MaxLabelCount {
		return nil, ErrLabelCountExceeded
	}

	defaultStore.mutex.Lock()
	defer defaultStore.mutex.Unlock()

	if defaultStore.disabled {
		return NewNilMetrics(typ, labels)
	}

	name, keys, values := fullName(typ, labels)
	if m, ok := defaultStore.metrics[name]; ok {
		return m, nil
	}

	stats := &metrics{
		typ:       typ,
		labels:    labels,
		labelKeys: keys,
		labelVals: values,
		registry:  gometrics.NewRegistry(),
	}

	defaultStore.metrics[name] = stats
	return stats, nil
}

func sortedLabels(labels map[string]string) (keys, values []string) {
	keys = make([]string, 0, len(labels))
	values = make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values = append(values, labels[k])
	}
	return
}

func (s *metrics) Type() string {
	return s.typ
}

func (s *metrics) Labels() map[string]string {
	return s.labels
}

func (s *metrics) SortedLabels() (keys, values []string) {
	if s.labelKeys != nil && s.labelVals != nil {
		return s.labelKeys, s.labelVals
	}
	keys, values = sortedLabels(s.labels)
	s.labelKeys = keys
	s.labelVals = values
	return
}

func (s *metrics) Counter(key string) gometrics.Counter {
	return s.registry.GetOrRegister(key, gometrics.NewCounter).(gometrics.Counter)
}

func (s *metrics) Gauge(key string) gometrics.Gauge {
	return s.registry.GetOrRegister(key, gometrics.NewGauge).(gometrics.Gauge)
}

func (s *metrics) Each(f func(string, interface{})) {
	s.registry.Each(f)
}

func (s *metrics) UnregisterAll() {
	s.registry.UnregisterAll()
}

// GetAll returns all metrics data, sorted by full name
func GetAll() []types.Metrics {
	defaultStore.mutex.RLock()
	defer defaultStore.mutex.RUnlock()
	names := make([]string, 0, len(defaultStore.metrics))
	for name := range defaultStore.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	all := make([]types.Metrics, 0, len(names))
	for _, name := range names {
		all = append(all, defaultStore.metrics[name])
	}
	return all
}

// GetMetricsFilter returns the metrics whose full name is type.labels
func GetMetricsFilter(filter string) types.Metrics {
	defaultStore.mutex.RLock()
	defer defaultStore.mutex.RUnlock()
	return defaultStore.metrics[filter]
}

// ResetAll is only for test and internal usage. DO NOT use this if not sure.
func ResetAll() {
	defaultStore.mutex.Lock()
	defer defaultStore.mutex.Unlock()

	for _, m := range defaultStore.metrics {
		m.UnregisterAll()
	}
	defaultStore.metrics = make(map[string]types.Metrics, 16)
	defaultStore.disabled = false
}

func fullName(typ string, labels map[string]string) (fullName string, keys, values []string) {
	keys, values = sortedLabels(labels)
	if len(keys) == 0 {
		return typ, keys, values
	}
	pair := make([]string, 0, len(keys))
	for i := 0; i < len(keys); i++ {
		pair = append(pair, keys[i]+"."+values[i])
	}
	fullName = typ + "." + strings.Join(pair, ".")
	return
}
