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
	"testing"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsSameLabels(t *testing.T) {
	ResetAll()
	defer ResetAll()

	m1, err := NewMetrics(ResolverType, map[string]string{"stream": "a"})
	require.NoError(t, err)
	m2, err := NewMetrics(ResolverType, map[string]string{"stream": "a"})
	require.NoError(t, err)
	assert.Equal(t, m1, m2)

	m1.Counter("c").Inc(2)
	assert.Equal(t, int64(2), m2.Counter("c").Count())

	m3, err := NewMetrics(ResolverType, map[string]string{"stream": "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), m3.Counter("c").Count())

	all := GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, m1, all[0])
	assert.Equal(t, m1, GetMetricsFilter("resolver.stream.a"))
	assert.Nil(t, GetMetricsFilter("resolver.stream.c"))
}

func TestLabelCountExceeded(t *testing.T) {
	labels := map[string]string{}
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		labels[k] = k
	}
	_, err := NewMetrics(ResolverType, labels)
	assert.Equal(t, ErrLabelCountExceeded, err)
}

func TestSortedLabels(t *testing.T) {
	ResetAll()
	defer ResetAll()
	m, err := NewMetrics(ResolverType, map[string]string{"z": "1", "a": "2"})
	require.NoError(t, err)
	keys, vals := m.SortedLabels()
	assert.Equal(t, []string{"a", "z"}, keys)
	assert.Equal(t, []string{"2", "1"}, vals)
	assert.Equal(t, m, GetMetricsFilter("resolver.a.2.z.1"))
}

func TestDisabled(t *testing.T) {
	ResetAll()
	defer ResetAll()
	SetDisabled(true)
	m, err := NewMetrics(ResolverType, nil)
	require.NoError(t, err)
	_, ok := m.(*NilMetrics)
	assert.True(t, ok)
	assert.Equal(t, gometrics.NilCounter{}, m.Counter("c"))
	assert.Len(t, GetAll(), 0)
}

func TestResolverStats(t *testing.T) {
	ResetAll()
	defer ResetAll()
	s1 := NewResolverStats(nil)
	s2 := NewResolverStats(nil)
	s1.Blocked.Inc(1)
	s1.Denylist.Update(9)
	assert.Equal(t, int64(1), s2.Blocked.Count())
	assert.Equal(t, int64(9), s2.Denylist.Value())
	assert.NotNil(t, GetMetricsFilter(ResolverType))
}

func TestNilMetricsKeepsLabels(t *testing.T) {
	m, err := NewNilMetrics(ResolverType, map[string]string{"z": "1", "a": "2"})
	require.NoError(t, err)
	assert.Equal(t, ResolverType, m.Type())
	keys, vals := m.SortedLabels()
	assert.Equal(t, []string{"a", "z"}, keys)
	assert.Equal(t, []string{"2", "1"}, vals)

	m.Counter(ResolveTotal).Inc(3)
	assert.Equal(t, int64(0), m.Counter(ResolveTotal).Count())
	m.Each(func(string, interface{}) {
		t.Fatal("nil metrics have no entries")
	})
}

func TestResolverStatsTooManyLabels(t *testing.T) {
	ResetAll()
	defer ResetAll()

	labels := make(map[string]string, MaxLabelCount+1)
	for i := 0; i <= MaxLabelCount; i++ {
		labels[fmt.Sprintf("k%d", i)] = "v"
	}
	s := NewResolverStats(labels)
	s.Blocked.Inc(1)
	s.Denylist.Update(9)
	assert.Equal(t, int64(0), s.Blocked.Count())
	assert.Equal(t, int64(0), s.Denylist.Value())
	assert.Len(t, GetAll(), 0)
}
