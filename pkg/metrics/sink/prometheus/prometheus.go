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

package prometheus

import (
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	gometrics "github.com/rcrowley/go-metrics"

	"mosn.io/deserguard/pkg/types"
)

const defaultNamespace = "deserguard"

// promSink copies go-metrics values into prometheus gauges and renders
// them in the text exposition format
type promSink struct {
	namespace string
	registry  *prometheus.Registry
	gaugeVecs map[string]*prometheus.GaugeVec
}

// NewPromeSink returns a metrics sink that produces Prometheus metrics using store data
func NewPromeSink(namespace string) types.MetricsSink {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &promSink{
		namespace: flattenKey(namespace),
		registry:  prometheus.NewRegistry(),
		gaugeVecs: make(map[string]*prometheus.GaugeVec),
	}
}

// ~ MetricsSink
func (sink *promSink) Flush(writer io.Writer, ms []types.Metrics) error {
	for _, m := range ms {
		typ := m.Type()
		labelKeys, labelVals := m.SortedLabels()

		m.Each(func(name string, i interface{}) {
			switch metric := i.(type) {
			case gometrics.Counter:
				sink.gauge(typ, labelKeys, labelVals, name).Set(float64(metric.Count()))
			case gometrics.Gauge:
				sink.gauge(typ, labelKeys, labelVals, name).Set(float64(metric.Value()))
			}
		})
	}

	families, err := sink.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(writer, mf); err != nil {
			return err
		}
	}
	return nil
}

func (sink *promSink) gauge(typ string, labelKeys, labelVals []string, name string) prometheus.Gauge {
	key := strings.Join(labelKeys, "_") + "_" + typ + "_" + name
	g, ok := sink.gaugeVecs[key]
	if !ok {
		keys := make([]string, len(labelKeys))
		for i := range labelKeys {
			keys[i] = flattenKey(labelKeys[i])
		}
		g = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: sink.namespace,
			Subsystem: flattenKey(typ),
			Name:      flattenKey(name),
		}, keys)

		sink.registry.MustRegister(g)
		sink.gaugeVecs[key] = g
	}
	return g.WithLabelValues(labelVals...)
}

func flattenKey(key string) string {
	key = strings.Replace(key, " ", "_", -1)
	key = strings.Replace(key, ".", "_", -1)
	key = strings.Replace(key, "-", "_", -1)
	key = strings.Replace(key, "=", "_", -1)
	return key
}
