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

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mosn.io/deserguard/pkg/metrics"
	"mosn.io/deserguard/pkg/resolver"
	"mosn.io/deserguard/pkg/types"
)

const yamlConfig = `
denylist:
  extra:
    - com.evil.Gadget
loader:
  order: ["application", "system"]
log:
  level: debug
metrics:
  labels:
    service: payments
`

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(yamlConfig), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.evil.Gadget"}, cfg.Denylist.Extra)
	assert.Equal(t, []string{"application", "system"}, cfg.Loader.Order)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "payments", cfg.Metrics.Labels["service"])

	d := cfg.BuildDenylist()
	assert.Equal(t, 10, d.Len())
	assert.True(t, d.Contains("com.evil.Gadget"))
	assert.True(t, d.Contains(" org.springframework.beans.factory.ObjectFactory"))
}

func TestParseJSON(t *testing.T) {
	cfg, err := Parse([]byte(`{"denylist":{"disable_default":true,"extra":["a.B"]}}`), false)
	require.NoError(t, err)
	d := cfg.BuildDenylist()
	assert.Equal(t, []string{"a.B"}, d.Entries())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"denylist":{"extra":[""]}}`), false)
	assert.Error(t, err)

	_, err = Parse([]byte(`{"log":{"level":"verbose"}}`), false)
	assert.Error(t, err)

	_, err = Parse([]byte("denylist: [unclosed"), true)
	assert.Error(t, err)

	_, err = Parse([]byte(`{"loader":{"order":"system"}}`), false)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "deserguard-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "guard.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(yamlConfig), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.evil.Gadget"}, cfg.Denylist.Extra)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNewResolver(t *testing.T) {
	metrics.ResetAll()
	defer metrics.ResetAll()

	cfg, err := Parse([]byte(yamlConfig), true)
	require.NoError(t, err)
	r, err := cfg.NewResolver()
	require.NoError(t, err)

	_, err = r.Resolve(&types.ObjectStreamClass{Name: "com.evil.Gadget"})
	assert.True(t, resolver.IsBlocked(err))
	_, err = r.Resolve(&types.ObjectStreamClass{Name: "java.lang.String"})
	assert.NoError(t, err)
	assert.NotNil(t, metrics.GetMetricsFilter("resolver.service.payments"))

	cfg.Loader.Order = []string{"nowhere"}
	_, err = cfg.NewResolver()
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	metrics.ResetAll()
	defer metrics.ResetAll()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.SetupLog())
	r, err := cfg.NewResolver()
	require.NoError(t, err)
	assert.Equal(t, 9, r.Denylist().Len())
}
