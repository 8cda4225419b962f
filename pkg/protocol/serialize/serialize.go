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
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
)

// serialization ids, same numbering as the dubbo protocol
const (
	Hessian2ID byte = 2
	JSONID     byte = 6
)

var (
	ErrInvalidTarget = errors.New("serialize: target must be a non-nil pointer")
	ErrNumberRange   = errors.New("serialize: number out of range")

	serializations = map[byte]Serialization{}
	mutex          sync.RWMutex
)

// Serialization encodes and decodes one object payload
type Serialization interface {
	GetSerialNum() byte
	Name() string
	Marshal(v interface{}) ([]byte, error)
	// Unmarshal decodes data into the value pointed to by v
	Unmarshal(data []byte, v interface{}) error
}

// ClassScanner is implemented by serializations whose payloads declare the
// classes of nested objects themselves.
type ClassScanner interface {
	ClassNames(data []byte) ([]string, error)
}

func init() {
	Register(&Hessian2Serialization{})
	Register(&JSONSerialization{})
}

// Register adds s, replacing any serialization with the same id
func Register(s Serialization) {
	mutex.Lock()
	defer mutex.Unlock()
	serializations[s.GetSerialNum()] = s
}

// Get returns the serialization registered for id
func Get(id byte) (Serialization, bool) {
	mutex.RLock()
	defer mutex.RUnlock()
	s, ok := serializations[id]
	return s, ok
}

// assign stores a decoded value into the value pointed to by v,
// following pointers and converting between numeric kinds.
func assign(decoded interface{}, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrInvalidTarget
	}
	target := rv.Elem()
	if decoded == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	dv := reflect.ValueOf(decoded)
	for {
		if dv.Type().AssignableTo(target.Type()) {
			target.Set(dv)
			return nil
		}
		if dv.Kind() != reflect.Ptr || dv.IsNil() {
			break
		}
		dv = dv.Elem()
	}
	if isNumeric(dv.Kind()) && isNumeric(target.Kind()) {
		if !fits(dv, target) {
			return fmt.Errorf("%w: %v does not fit %s", ErrNumberRange, dv.Interface(), target.Type())
		}
		target.Set(dv.Convert(target.Type()))
		return nil
	}
	return fmt.Errorf("serialize: cannot assign %s to %s", dv.Type(), target.Type())
}

// fits reports whether the number v converts to the kind of target without
// truncation, sign change or loss of a fraction.
func fits(v, target reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return !target.OverflowInt(i)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return i >= 0 && !target.OverflowUint(uint64(i))
		}
		return true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return u <= math.MaxInt64 && !target.OverflowInt(int64(u))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return !target.OverflowUint(u)
		}
		return true
	}

	f := v.Float()
	switch target.Kind() {
	case reflect.Float32, reflect.Float64:
		return !target.OverflowFloat(f)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return false
	}
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f >= math.MinInt64 && f < math.MaxInt64 && !target.OverflowInt(int64(f))
	}
	return f >= 0 && f < math.MaxUint64 && !target.OverflowUint(uint64(f))
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
