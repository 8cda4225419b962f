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
	"path/filepath"

	"github.com/ghodss/yaml"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"mosn.io/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Default returns the config used when no file is given
func Default() *GuardConfig {
	return &GuardConfig{}
}

// Load parses a yaml or json config file
func Load(path string) (*GuardConfig, error) {
	log.DefaultLogger.Infof("[config] load config from : %s", path)
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config failed")
	}
	return Parse(content, yamlFormat(path))
}

// Parse decodes content, translating yaml to json first when isYAML is set
func Parse(content []byte, isYAML bool) (*GuardConfig, error) {
	if isYAML {
		bytes, err := yaml.YAMLToJSON(content)
		if err != nil {
			return nil, errors.Wrap(err, "translate yaml to json error")
		}
		content = bytes
	}
	cfg := Default()
	if err := json.Unmarshal(content, cfg); err != nil {
		return nil, errors.Wrap(err, "json unmarshal config failed")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func yamlFormat(path string) bool {
	ext := filepath.Ext(path)
	if ext == ".yaml" || ext == ".yml" {
		return true
	}
	return false
}
