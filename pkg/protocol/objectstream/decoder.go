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

package objectstream

import (
	"encoding/binary"
	"io"
	"reflect"

	"github.com/pkg/errors"
	"mosn.io/pkg/log"

	"mosn.io/deserguard/pkg/protocol/serialize"
	"mosn.io/deserguard/pkg/types"
)

// ObjectInputStream reads objects, resolving each declared class through
// its resolver before the payload is decoded. Classes a payload declares for
// nested objects are resolved too when its serialization can list them. The first failure aborts the
// stream: every later ReadObject returns the same error.
// An ObjectInputStream is not safe for concurrent use.
type ObjectInputStream struct {
	r        io.Reader
	resolver types.TypeResolver

	headerRead bool
	index      int
	err        error
}

func NewObjectInputStream(r io.Reader, resolver types.TypeResolver) *ObjectInputStream {
	return &ObjectInputStream{
		r:        r,
		resolver: resolver,
	}
}

// ReadObject returns the next object, or io.EOF once the stream ended on a frame boundary.
func (in *ObjectInputStream) ReadObject() (interface{}, error) {
	if in.err != nil {
		return nil, in.err
	}
	obj, err := in.readObject()
	if err != nil {
		in.err = err
		if err != io.EOF {
			log.DefaultLogger.Warnf("[objectstream] stream aborted at object %d: %v", in.index, err)
		}
		return nil, err
	}
	in.index++
	return obj, nil
}

// ReadAll reads every object until io.EOF. Any failure discards the objects read so far.
func (in *ObjectInputStream) ReadAll() ([]interface{}, error) {
	var objs []interface{}
	for {
		obj, err := in.ReadObject()
		if err == io.EOF {
			return objs, nil
		}
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
}

// Count returns the number of objects read successfully
func (in *ObjectInputStream) Count() int {
	return in.index
}

func (in *ObjectInputStream) readStreamHeader() error {
	header := make([]byte, StreamHeaderLen)
	if _, err := io.ReadFull(in.r, header); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return errors.Wrap(err, "read stream header")
	}
	if binary.BigEndian.Uint16(header) != Magic {
		return ErrBadMagic
	}
	if header[2] != Version {
		return ErrBadVersion
	}
	in.headerRead = true
	return nil
}

func (in *ObjectInputStream) readObject() (interface{}, error) {
	if !in.headerRead {
		if err := in.readStreamHeader(); err != nil {
			return nil, err
		}
	}

	// decode serialization id + class name length
	header := make([]byte, FrameHeaderLen)
	if _, err := io.ReadFull(in.r, header); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrapf(err, "read header of object %d", in.index)
	}
	nameLen := int(binary.BigEndian.Uint16(header[ClassNameLenIdx:]))
	if nameLen > MaxClassNameLen {
		return nil, errors.Wrapf(ErrClassNameTooLong, "object %d: %d bytes", in.index, nameLen)
	}

	// decode class name + payload length
	meta := make([]byte, nameLen+PayloadLenSize)
	if _, err := io.ReadFull(in.r, meta); err != nil {
		return nil, errors.Wrapf(noEOF(err), "read class name of object %d", in.index)
	}
	payloadLen := binary.BigEndian.Uint32(meta[nameLen:])
	if payloadLen > MaxPayloadLen {
		return nil, errors.Wrapf(ErrPayloadTooLarge, "object %d: %d bytes", in.index, payloadLen)
	}

	osc := &types.ObjectStreamClass{
		Name:            string(meta[:nameLen]),
		SerializationID: header[SerializationIdx],
		PayloadLen:      payloadLen,
		Index:           in.index,
	}

	// resolve before anything of the object is decoded
	typ, err := in.resolver.Resolve(osc)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve object %d", in.index)
	}

	s, ok := serialize.Get(osc.SerializationID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSerialization, "object %d: id %d", in.index, osc.SerializationID)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(in.r, payload); err != nil {
		return nil, errors.Wrapf(noEOF(err), "read payload of object %d", in.index)
	}

	if scanner, ok := s.(serialize.ClassScanner); ok {
		if err := in.resolveNested(scanner, osc, payload); err != nil {
			return nil, err
		}
	}

	value := reflect.New(typ)
	if err := s.Unmarshal(payload, value.Interface()); err != nil {
		return nil, errors.Wrapf(err, "decode object %d as %s", in.index, osc.Name)
	}
	if log.DefaultLogger.GetLogLevel() >= log.DEBUG {
		log.DefaultLogger.Debugf("[objectstream] read %s", osc)
	}
	return value.Elem().Interface(), nil
}

// resolveNested resolves every class the payload declares for the objects
// it contains, before any of them is decoded.
func (in *ObjectInputStream) resolveNested(scanner serialize.ClassScanner, osc *types.ObjectStreamClass, payload []byte) error {
	names, err := scanner.ClassNames(payload)
	if err != nil {
		return errors.Wrapf(err, "scan object %d", in.index)
	}
	for _, name := range names {
		if name == osc.Name {
			continue
		}
		nested := &types.ObjectStreamClass{
			Name:            name,
			SerializationID: osc.SerializationID,
			PayloadLen:      osc.PayloadLen,
			Index:           osc.Index,
			Enclosing:       osc.Name,
		}
		if _, err := in.resolver.Resolve(nested); err != nil {
			return errors.Wrapf(err, "resolve class nested in object %d", in.index)
		}
	}
	return nil
}

// a stream ending inside a frame is truncated
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
