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

	"github.com/pkg/errors"
	"mosn.io/pkg/buffer"

	"mosn.io/deserguard/pkg/protocol/serialize"
)

// ObjectOutputStream writes class-tagged objects with one serialization.
// The stream header is written together with the first object.
type ObjectOutputStream struct {
	w             io.Writer
	serialization serialize.Serialization
	headerWritten bool
}

func NewObjectOutputStream(w io.Writer, s serialize.Serialization) *ObjectOutputStream {
	return &ObjectOutputStream{
		w:             w,
		serialization: s,
	}
}

// WriteObject encodes v and writes it tagged with className
func (out *ObjectOutputStream) WriteObject(className string, v interface{}) error {
	if len(className) > MaxClassNameLen {
		return ErrClassNameTooLong
	}
	payload, err := out.serialization.Marshal(v)
	if err != nil {
		return err
	}
	return out.WriteRaw(out.serialization.GetSerialNum(), className, payload)
}

// WriteRaw writes an already encoded payload
func (out *ObjectOutputStream) WriteRaw(serializationID byte, className string, payload []byte) error {
	if len(className) > MaxClassNameLen {
		return ErrClassNameTooLong
	}
	if len(payload) > MaxPayloadLen {
		return ErrPayloadTooLarge
	}

	headerLen := 0
	if !out.headerWritten {
		headerLen = StreamHeaderLen
	}
	frameLen := headerLen + FrameHeaderLen + len(className) + PayloadLenSize + len(payload)

	// alloc encode buffer
	bufp := buffer.GetBytes(frameLen)
	defer buffer.PutBytes(bufp)
	buf := (*bufp)[:frameLen]

	// encode stream header
	if headerLen > 0 {
		binary.BigEndian.PutUint16(buf, Magic)
		buf[2] = Version
	}
	frame := buf[headerLen:]
	// encode frame header
	frame[SerializationIdx] = serializationID
	binary.BigEndian.PutUint16(frame[ClassNameLenIdx:], uint16(len(className)))
	off := FrameHeaderLen
	off += copy(frame[off:], className)
	binary.BigEndian.PutUint32(frame[off:], uint32(len(payload)))
	off += PayloadLenSize
	// encode payload
	copy(frame[off:], payload)

	if _, err := out.w.Write(buf); err != nil {
		return errors.Wrap(err, "write object")
	}
	out.headerWritten = true
	return nil
}
