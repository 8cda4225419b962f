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
	hessian "github.com/apache/dubbo-go-hessian2"
	"github.com/pkg/errors"
)

// Hessian2Serialization uses dubbo-go-hessian2. Structs must be registered
// as POJOs to be encoded and decoded as objects.
type Hessian2Serialization struct{}

func (s *Hessian2Serialization) GetSerialNum() byte {
	return Hessian2ID
}

func (s *Hessian2Serialization) Name() string {
	return "hessian2"
}

func (s *Hessian2Serialization) Marshal(v interface{}) ([]byte, error) {
	encoder := hessian.NewEncoder()
	if err := encoder.Encode(v); err != nil {
		return nil, errors.Wrap(err, "hessian2 encode")
	}
	return encoder.Buffer(), nil
}

func (s *Hessian2Serialization) Unmarshal(data []byte, v interface{}) error {
	decoded, err := hessian.NewDecoder(data).Decode()
	if err != nil {
		return errors.Wrap(err, "hessian2 decode")
	}
	return assign(decoded, v)
}
