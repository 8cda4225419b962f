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

// Package objectstream reads and writes streams of class-tagged objects.
// Every object header is resolved through a types.TypeResolver before its
// payload is decoded.
//
// Stream layout, big endian:
//
//	stream: magic(2) version(1) frame*
//	frame:  serialization(1) classNameLen(2) className payloadLen(4) payload
package objectstream

import (
	"errors"
)

// stream header
const (
	Magic           uint16 = 0xdabb
	Version         byte   = 1
	StreamHeaderLen        = 3
)

// frame layout
const (
	SerializationIdx = 0
	ClassNameLenIdx  = 1
	ClassNameLenSize = 2
	PayloadLenSize   = 4
	FrameHeaderLen   = 1 + ClassNameLenSize
)

// limits
const (
	MaxClassNameLen = 1024
	MaxPayloadLen   = 16 << 20
)

var (
	ErrBadMagic             = errors.New("bad stream magic")
	ErrBadVersion           = errors.New("unsupported stream version")
	ErrClassNameTooLong     = errors.New("class name too long")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrUnknownSerialization = errors.New("unknown serialization")
)
