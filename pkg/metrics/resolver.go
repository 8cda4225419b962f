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
	gometrics "github.com/rcrowley/go-metrics"
	"mosn.io/pkg/log"

	"mosn.io/deserguard/pkg/types"
)

// resolver metrics type and keys
const (
	ResolverType = "resolver"

	ResolveTotal    = "resolve_total"
	ResolveSuccess  = "resolve_success"
	ResolveBlocked  = "resolve_blocked"
	ResolveNotFound = "resolve_not_found"
	DenylistSize    = "denylist_size"
)

// ResolverStats holds the counters a guarded resolver updates
type ResolverStats struct {
	Total    gometrics.Counter
	Success  gometrics.Counter
	Blocked  gometrics.Counter
	NotFound gometrics.Counter
	Denylist gometrics.Gauge
}

// NewResolverStats returns the stats for the resolver metrics with labels.
// Resolvers sharing labels share counters.
func NewResolverStats(labels map[string]string) *ResolverStats {
	m, err := NewMetrics(ResolverType, labels)
	if err != nil {
		log.DefaultLogger.Warnf("[metrics] resolver metrics discarded: %v", err)
		return discardStats
	}
	return newResolverStats(m)
}

func newResolverStats(m types.Metrics) *ResolverStats {
	return &ResolverStats{
		Total:    m.Counter(ResolveTotal),
		Success:  m.Counter(ResolveSuccess),
		Blocked:  m.Counter(ResolveBlocked),
		NotFound: m.Counter(ResolveNotFound),
		Denylist: m.Gauge(DenylistSize),
	}
}
