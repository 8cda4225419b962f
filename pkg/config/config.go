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
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"mosn.io/pkg/log"

	"mosn.io/deserguard/pkg/denylist"
	ilog "mosn.io/deserguard/pkg/log"
	"mosn.io/deserguard/pkg/loader"
	"mosn.io/deserguard/pkg/metrics"
	"mosn.io/deserguard/pkg/resolver"
)

// GuardConfig is the config of a guarded resolver
type GuardConfig struct {
	Denylist DenylistConfig `json:"denylist"`
	Loader   LoaderConfig   `json:"loader"`
	Log      LogConfig      `json:"log"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// DenylistConfig extends the compiled-in denylist
type DenylistConfig struct {
	// DisableDefault drops the compiled-in entries, only Extra is used
	DisableDefault bool     `json:"disable_default,omitempty"`
	Extra          []string `json:"extra,omitempty" validate:"dive,required,max=1024"`
}

// LoaderConfig orders the class loader sources
type LoaderConfig struct {
	Order []string `json:"order,omitempty" validate:"dive,required"`
}

type LogConfig struct {
	Path  string `json:"path,omitempty"`
	Level string `json:"level,omitempty" validate:"omitempty,oneof=FATAL ERROR WARN INFO DEBUG TRACE fatal error warn info debug trace"`
}

type MetricsConfig struct {
	Disable bool              `json:"disable,omitempty"`
	Labels  map[string]string `json:"labels,omitempty" validate:"max=10"`
}

var validate = validator.New()

// Validate checks the config fields
func (c *GuardConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid guard config")
	}
	return nil
}

// BuildDenylist returns the effective denylist
func (c *GuardConfig) BuildDenylist() *denylist.Denylist {
	if c.Denylist.DisableDefault {
		log.DefaultLogger.Warnf("[config] compiled-in denylist disabled, %d entries configured", len(c.Denylist.Extra))
		return denylist.New(c.Denylist.Extra...)
	}
	return denylist.Default().With(c.Denylist.Extra...)
}

// SetupLog replaces the default logger when a log path or level is configured
func (c *GuardConfig) SetupLog() error {
	if c.Log.Path == "" && c.Log.Level == "" {
		return nil
	}
	level, err := ilog.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	return ilog.InitDefaultLogger(c.Log.Path, level)
}

// NewResolver builds a guarded resolver from the config
func (c *GuardConfig) NewResolver() (*resolver.Resolver, error) {
	chain, err := loader.NewChainByNames(c.Loader.Order)
	if err != nil {
		return nil, err
	}
	metrics.SetDisabled(c.Metrics.Disable)
	return resolver.New(
		resolver.WithDenylist(c.BuildDenylist()),
		resolver.WithLoader(chain),
		resolver.WithMetrics(c.Metrics.Labels),
	), nil
}
