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

package loader

import (
	"errors"
	"reflect"
	"sync"
	"time"

	hessian "github.com/apache/dubbo-go-hessian2"
)

const (
	SourceApplication = "application"
	SourceSystem      = "system"
)

var (
	systemRegistry      *Registry
	applicationRegistry *Registry
	sourcesMutex        sync.RWMutex
	sources             = make(map[string]Source, 4)

	systemOnce sync.Once
	appOnce    sync.Once
)

var (
	interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
	mapType       = reflect.TypeOf(map[interface{}]interface{}{})
	listType      = reflect.TypeOf([]interface{}{})

	primitiveTypes = map[string]reflect.Type{
		"boolean": reflect.TypeOf(false),
		"byte":    reflect.TypeOf(int8(0)),
		"char":    reflect.TypeOf(uint16(0)),
		"short":   reflect.TypeOf(int16(0)),
		"int":     reflect.TypeOf(int32(0)),
		"long":    reflect.TypeOf(int64(0)),
		"float":   reflect.TypeOf(float32(0)),
		"double":  reflect.TypeOf(float64(0)),
	}

	// array descriptor codes, e.g. [I is int[]
	primitiveCodes = map[byte]string{
		'Z': "boolean",
		'B': "byte",
		'C': "char",
		'S': "short",
		'I': "int",
		'J': "long",
		'F': "float",
		'D': "double",
	}
)

// System returns the frozen registry of builtin java classes.
func System() *Registry {
	systemOnce.Do(func() {
		reg := NewRegistry(SourceSystem)
		builtin := map[string]reflect.Type{
			"java.lang.Object":        interfaceType,
			"java.lang.String":        reflect.TypeOf(""),
			"java.lang.Boolean":       reflect.TypeOf(false),
			"java.lang.Byte":          reflect.TypeOf(int8(0)),
			"java.lang.Short":         reflect.TypeOf(int16(0)),
			"java.lang.Integer":       reflect.TypeOf(int32(0)),
			"java.lang.Long":          reflect.TypeOf(int64(0)),
			"java.lang.Float":         reflect.TypeOf(float32(0)),
			"java.lang.Double":        reflect.TypeOf(float64(0)),
			"java.math.BigDecimal":    reflect.TypeOf(""),
			"java.math.BigInteger":    reflect.TypeOf(""),
			"java.util.Date":          reflect.TypeOf(time.Time{}),
			"java.util.Map":           mapType,
			"java.util.HashMap":       mapType,
			"java.util.LinkedHashMap": mapType,
			"java.util.TreeMap":       mapType,
			"java.util.Collection":    listType,
			"java.util.List":          listType,
			"java.util.ArrayList":     listType,
			"java.util.LinkedList":    listType,
			"java.util.Set":           listType,
			"java.util.HashSet":       listType,
		}
		for name, t := range builtin {
			_ = reg.RegisterType(name, t)
		}
		reg.Freeze()
		systemRegistry = reg
	})
	return systemRegistry
}

// Application returns the registry that application classes are registered in.
func Application() *Registry {
	appOnce.Do(func() {
		applicationRegistry = NewRegistry(SourceApplication)
	})
	return applicationRegistry
}

// RegisterSource makes s addressable by name, for example from a loader order in config.
func RegisterSource(s Source) {
	sourcesMutex.Lock()
	defer sourcesMutex.Unlock()
	sources[s.Name()] = s
}

// GetSource returns a source registered by RegisterSource or a builtin one
func GetSource(name string) (Source, bool) {
	switch name {
	case SourceSystem:
		return System(), true
	case SourceApplication:
		return Application(), true
	}
	sourcesMutex.RLock()
	defer sourcesMutex.RUnlock()
	s, ok := sources[name]
	return s, ok
}

// RegisterPOJO registers pojo into hessian and binds its java class name in reg.
func RegisterPOJO(reg *Registry, pojo hessian.POJO) error {
	if pojo == nil {
		return errors.New("register pojo: nil pojo")
	}
	if err := reg.Register(pojo.JavaClassName(), pojo); err != nil {
		return err
	}
	hessian.RegisterPOJO(pojo)
	return nil
}
