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

	"mosn.io/deserguard/pkg/types"
)

// NilMetrics is handed out while metrics are disabled, or when labels are
// rejected. Type and labels are kept so a resolver can still be named,
// counters and gauges discard every update and nothing enters the store.
type NilMetrics struct {
	*metrics
}

func NewNilMetrics(typ string, labels map[string]string) (types.Metrics, error) {
	keys, values := sortedLabels(labels)
	return &NilMetrics{
		metrics: &metrics{
			typ:       typ,
			labels:    labels,
			labelKeys: keys,
			labelVals: values,
		},
	}, nil
}

func (m *NilMetrics) Counter(string) gometrics.Counter {
	return gometrics.NilCounter{}
}

func (m *NilMetrics) Gauge(string) gometrics.Gauge {
	return gometrics.NilGauge{}
}

// Each visits nothing, there is no registry
func (m *NilMetrics) Each(func(string, interface{})) {}

func (m *NilMetrics) UnregisterAll() {}

// discardStats counts nothing, shared by every resolver whose metrics were rejected
var discardStats = newResolverStats(&NilMetrics{metrics: &metrics{typ: ResolverType}})
