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

package serialize

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONSerialization uses json-iterator
type JSONSerialization struct{}

func (s *JSONSerialization) GetSerialNum() byte {
	return JSONID
}

func (s *JSONSerialization) Name() string {
	return "json"
}

func (s *JSONSerialization) Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "json encode")
	}
	return data, nil
}

func (s *JSONSerialization) Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrInvalidTarget
	}
	// json objects only have string keys, java maps decode with interface keys
	if t := rv.Elem().Type(); t.Kind() == reflect.Map && t.Key().Kind() == reflect.Interface {
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			return errors.Wrap(err, "json decode")
		}
		if m == nil {
			rv.Elem().Set(reflect.Zero(t))
			return nil
		}
		out := reflect.MakeMapWithSize(t, len(m))
		for k, val := range m {
			if val == nil {
				out.SetMapIndex(reflect.ValueOf(k), reflect.Zero(t.Elem()))
				continue
			}
			ev := reflect.ValueOf(val)
			if !ev.Type().AssignableTo(t.Elem()) {
				return errors.Errorf("json decode: cannot assign %s to %s", ev.Type(), t.Elem())
			}
			out.SetMapIndex(reflect.ValueOf(k), ev)
		}
		rv.Elem().Set(out)
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "json decode")
	}
	return nil
}
