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

package types

//go:generate mockgen -destination ../mock/types.go -package mock mosn.io/deserguard/pkg/types ClassLoader,TypeResolver

import (
	"fmt"
	"reflect"
)

// ObjectStreamClass describes one serialized object as declared by the stream,
// before its class has been resolved.
type ObjectStreamClass struct {
	// Name is the fully-qualified class name as encoded in the stream
	Name string
	// SerializationID identifies the codec of the payload
	SerializationID byte
	// PayloadLen is the payload size in bytes
	PayloadLen uint32
	// Index is the position of the object in its stream, starting at 0
	Index int
	// Enclosing is the class of the stream object a nested class is declared in,
	// empty for the stream object itself
	Enclosing string
}

func (osc *ObjectStreamClass) String() string {
	if osc == nil {
		return "<nil>"
	}
	if osc.Enclosing != "" {
		return fmt.Sprintf("%s: in=%s, index=%d, serialization=%d, len=%d",
			osc.Name, osc.Enclosing, osc.Index, osc.SerializationID, osc.PayloadLen)
	}
	return fmt.Sprintf("%s: index=%d, serialization=%d, len=%d", osc.Name, osc.Index, osc.SerializationID, osc.PayloadLen)
}

// ClassLoader maps a class name to a Go type.
// The returned error reports an unknown class.
type ClassLoader interface {
	ForName(name string) (reflect.Type, error)
}

// TypeResolver is called back by an object stream once per object header.
type TypeResolver interface {
	Resolve(osc *ObjectStreamClass) (reflect.Type, error)
}
