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
	"encoding/binary"
	"strings"

	hessian "github.com/apache/dubbo-go-hessian2"
	"github.com/pkg/errors"
)

// ErrMalformedPayload is returned when a payload cannot be walked
var ErrMalformedPayload = errors.New("serialize: malformed payload")

// maxScanDepth bounds the nesting of lists, maps and objects
const maxScanDepth = 512

// hessian list element types that are not java class names
var hessianElementClasses = map[string]string{
	"string":  "java.lang.String",
	"char":    "char",
	"short":   "short",
	"int":     "int",
	"long":    "long",
	"float":   "float",
	"double":  "double",
	"boolean": "boolean",
	"date":    "java.util.Date",
	"object":  "java.lang.Object",
}

var _ ClassScanner = (*Hessian2Serialization)(nil)

// ClassNames returns every class a hessian2 payload declares: object class
// definitions, typed map types and the element types of typed lists.
// Names are returned in order of first appearance. Nothing is decoded into
// Go values, so a rejected class is never instantiated.
func (s *Hessian2Serialization) ClassNames(data []byte) ([]string, error) {
	sc := &hessianScanner{data: data, seen: make(map[string]struct{})}
	if err := sc.values(1); err != nil {
		return nil, err
	}
	if sc.pos != len(sc.data) {
		return nil, errors.Wrapf(ErrMalformedPayload, "%d trailing bytes", len(sc.data)-sc.pos)
	}
	return sc.names, nil
}

// errEndTag is the end of a variable length list, seen in value position
var errEndTag = errors.New("end tag")

type hessianScanner struct {
	data  []byte
	pos   int
	depth int
	// field count of every class definition, by definition index
	fields []int
	names  []string
	seen   map[string]struct{}
}

func (sc *hessianScanner) malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedPayload, format, args...)
}

func (sc *hessianScanner) readByte() (byte, error) {
	if sc.pos >= len(sc.data) {
		return 0, sc.malformed("unexpected end at %d", sc.pos)
	}
	b := sc.data[sc.pos]
	sc.pos++
	return b, nil
}

func (sc *hessianScanner) next(n int) ([]byte, error) {
	if n < 0 || len(sc.data)-sc.pos < n {
		return nil, sc.malformed("%d bytes needed at %d", n, sc.pos)
	}
	b := sc.data[sc.pos : sc.pos+n]
	sc.pos += n
	return b, nil
}

func (sc *hessianScanner) skip(n int) error {
	_, err := sc.next(n)
	return err
}

func (sc *hessianScanner) record(name string) {
	if name == "" {
		return
	}
	if _, ok := sc.seen[name]; ok {
		return
	}
	sc.seen[name] = struct{}{}
	sc.names = append(sc.names, name)
}

func (sc *hessianScanner) value() error {
	tag, err := sc.readByte()
	if err != nil {
		return err
	}
	if tag == hessian.BC_END {
		return errEndTag
	}
	sc.depth++
	defer func() { sc.depth-- }()
	if sc.depth > maxScanDepth {
		return sc.malformed("nesting deeper than %d", maxScanDepth)
	}
	return sc.valueOf(tag)
}

func (sc *hessianScanner) valueOf(tag byte) error {
	switch {
	case tag == hessian.BC_NULL || tag == hessian.BC_TRUE || tag == hessian.BC_FALSE:
		return nil
	case tag == hessian.BC_REF:
		_, err := sc.readInt()
		return err
	case isIntTag(tag) || isLongTag(tag):
		return sc.number(tag)
	case tag == hessian.BC_DATE:
		return sc.skip(8)
	case tag == hessian.BC_DATE_MINUTE:
		return sc.skip(4)
	case isDoubleTag(tag):
		return sc.double(tag)
	case isStringTag(tag):
		_, err := sc.stringOf(tag)
		return err
	case isBinaryTag(tag):
		return sc.binary(tag)
	case isListTag(tag):
		return sc.list(tag)
	case tag == hessian.BC_MAP || tag == hessian.BC_MAP_UNTYPED:
		return sc.hashMap(tag)
	case tag == hessian.BC_OBJECT_DEF:
		if err := sc.classDef(); err != nil {
			return err
		}
		return sc.value()
	case tag == hessian.BC_OBJECT:
		idx, err := sc.readInt()
		if err != nil {
			return err
		}
		return sc.object(idx)
	case tag >= hessian.BC_OBJECT_DIRECT && tag <= hessian.BC_OBJECT_DIRECT+hessian.OBJECT_DIRECT_MAX:
		return sc.object(int(tag - hessian.BC_OBJECT_DIRECT))
	}
	return sc.malformed("unknown tag %#x at %d", tag, sc.pos-1)
}

// values walks n values
func (sc *hessianScanner) values(n int) error {
	for i := 0; i < n; i++ {
		if err := sc.value(); err != nil {
			if err == errEndTag {
				return sc.malformed("unexpected end tag at %d", sc.pos-1)
			}
			return err
		}
	}
	return nil
}

// untilEnd walks values up to the end tag
func (sc *hessianScanner) untilEnd() error {
	for {
		err := sc.value()
		if err == errEndTag {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (sc *hessianScanner) readInt() (int, error) {
	tag, err := sc.readByte()
	if err != nil {
		return 0, err
	}
	switch {
	case tag == hessian.BC_NULL:
		return 0, nil
	case tag >= 0x80 && tag <= 0xbf:
		return int(tag) - int(hessian.BC_INT_ZERO), nil
	case tag >= 0xc0 && tag <= 0xcf:
		b, err := sc.readByte()
		if err != nil {
			return 0, err
		}
		return (int(tag)-int(hessian.BC_INT_BYTE_ZERO))<<8 + int(b), nil
	case tag >= 0xd0 && tag <= 0xd7:
		b, err := sc.next(2)
		if err != nil {
			return 0, err
		}
		return (int(tag)-int(hessian.BC_INT_SHORT_ZERO))<<16 + int(b[0])<<8 + int(b[1]), nil
	case tag == hessian.BC_INT:
		b, err := sc.next(4)
		if err != nil {
			return 0, err
		}
		return int(int32(binary.BigEndian.Uint32(b))), nil
	}
	return 0, sc.malformed("int expected at %d, got tag %#x", sc.pos-1, tag)
}

func (sc *hessianScanner) number(tag byte) error {
	switch {
	case tag >= 0x80 && tag <= 0xbf, tag >= 0xd8 && tag <= 0xef:
		return nil
	case tag >= 0xc0 && tag <= 0xcf, tag >= 0xf0:
		return sc.skip(1)
	case tag >= 0xd0 && tag <= 0xd7, tag >= 0x38 && tag <= 0x3f:
		return sc.skip(2)
	case tag == hessian.BC_INT, tag == hessian.BC_LONG_INT:
		return sc.skip(4)
	}
	// BC_LONG
	return sc.skip(8)
}

func (sc *hessianScanner) double(tag byte) error {
	switch tag {
	case hessian.BC_DOUBLE_ZERO, hessian.BC_DOUBLE_ONE:
		return nil
	case hessian.BC_DOUBLE_BYTE:
		return sc.skip(1)
	case hessian.BC_DOUBLE_SHORT:
		return sc.skip(2)
	case hessian.BC_DOUBLE_MILL:
		return sc.skip(4)
	}
	return sc.skip(8)
}

func (sc *hessianScanner) stringLen(tag byte) (int, error) {
	switch {
	case tag <= hessian.STRING_DIRECT_MAX:
		return int(tag), nil
	case tag >= hessian.BC_STRING_SHORT && tag <= 0x33:
		b, err := sc.readByte()
		if err != nil {
			return 0, err
		}
		return int(tag-hessian.BC_STRING_SHORT)<<8 + int(b), nil
	}
	b, err := sc.next(2)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(b)), nil
}

// stringOf reads a string whose tag was read. Lengths count UTF-16 units,
// so a 4 byte sequence counts twice.
func (sc *hessianScanner) stringOf(tag byte) (string, error) {
	var sb strings.Builder
	for {
		n, err := sc.stringLen(tag)
		if err != nil {
			return "", err
		}
		start := sc.pos
		for chars := 0; chars < n; {
			c, err := sc.readByte()
			if err != nil {
				return "", err
			}
			switch {
			case c < 0x80:
				chars++
			case c&0xe0 == 0xc0:
				err = sc.skip(1)
				chars++
			case c&0xf0 == 0xe0:
				err = sc.skip(2)
				chars++
			case c&0xf8 == 0xf0:
				err = sc.skip(3)
				chars += 2
			default:
				err = sc.malformed("bad utf-8 at %d", sc.pos-1)
			}
			if err != nil {
				return "", err
			}
		}
		sb.Write(sc.data[start:sc.pos])
		if tag != hessian.BC_STRING_CHUNK {
			return sb.String(), nil
		}
		if tag, err = sc.readByte(); err != nil {
			return "", err
		}
		if !isStringTag(tag) {
			return "", sc.malformed("string chunk expected at %d", sc.pos-1)
		}
	}
}

// readString reads a string value, nothing else is accepted
func (sc *hessianScanner) readString() (string, error) {
	tag, err := sc.readByte()
	if err != nil {
		return "", err
	}
	if !isStringTag(tag) {
		return "", sc.malformed("string expected at %d, got tag %#x", sc.pos-1, tag)
	}
	return sc.stringOf(tag)
}

func (sc *hessianScanner) binary(tag byte) error {
	for {
		var n int
		switch {
		case tag >= hessian.BC_BINARY_DIRECT && tag <= 0x2f:
			n = int(tag - hessian.BC_BINARY_DIRECT)
		case tag >= hessian.BC_BINARY_SHORT && tag <= 0x37:
			b, err := sc.readByte()
			if err != nil {
				return err
			}
			n = int(tag-hessian.BC_BINARY_SHORT)<<8 + int(b)
		default:
			b, err := sc.next(2)
			if err != nil {
				return err
			}
			n = int(binary.BigEndian.Uint16(b))
		}
		if err := sc.skip(n); err != nil {
			return err
		}
		if tag != hessian.BC_BINARY_CHUNK {
			return nil
		}
		var err error
		if tag, err = sc.readByte(); err != nil {
			return err
		}
		if !isBinaryTag(tag) {
			return sc.malformed("binary chunk expected at %d", sc.pos-1)
		}
	}
}

// typeName reads the type of a typed list or map. ok is false for a
// reference to a type read before.
func (sc *hessianScanner) typeName() (name string, ok bool, err error) {
	tag, err := sc.readByte()
	if err != nil {
		return "", false, err
	}
	switch {
	case isStringTag(tag):
		name, err = sc.stringOf(tag)
		return name, err == nil, err
	case tag == hessian.BC_NULL:
		return "", false, nil
	case isIntTag(tag) || isLongTag(tag):
		return "", false, sc.number(tag)
	}
	return "", false, sc.malformed("type expected at %d, got tag %#x", sc.pos-1, tag)
}

func (sc *hessianScanner) list(tag byte) error {
	typed := tag == hessian.BC_LIST_VARIABLE || tag == hessian.BC_LIST_FIXED ||
		(tag >= hessian.BC_LIST_DIRECT && tag <= hessian.BC_LIST_DIRECT+hessian.LIST_DIRECT_MAX)
	if typed {
		name, ok, err := sc.typeName()
		if err != nil {
			return err
		}
		if ok {
			sc.record(elementClass(name))
		}
	}

	switch {
	case tag == hessian.BC_LIST_VARIABLE || tag == hessian.BC_LIST_VARIABLE_UNTYPED:
		return sc.untilEnd()
	case tag == hessian.BC_LIST_FIXED || tag == hessian.BC_LIST_FIXED_UNTYPED:
		n, err := sc.readInt()
		if err != nil {
			return err
		}
		if n < 0 {
			return sc.malformed("negative list length %d", n)
		}
		return sc.values(n)
	case typed:
		return sc.values(int(tag - hessian.BC_LIST_DIRECT))
	}
	return sc.values(int(tag - hessian.BC_LIST_DIRECT_UNTYPED))
}

func (sc *hessianScanner) hashMap(tag byte) error {
	if tag == hessian.BC_MAP {
		name, ok, err := sc.typeName()
		if err != nil {
			return err
		}
		if ok {
			sc.record(name)
		}
	}
	for {
		if sc.pos < len(sc.data) && sc.data[sc.pos] == hessian.BC_END {
			sc.pos++
			return nil
		}
		if err := sc.values(2); err != nil {
			return err
		}
	}
}

func (sc *hessianScanner) classDef() error {
	name, err := sc.readString()
	if err != nil {
		return err
	}
	n, err := sc.readInt()
	if err != nil {
		return err
	}
	if n < 0 {
		return sc.malformed("class %s with %d fields", name, n)
	}
	for i := 0; i < n; i++ {
		if _, err := sc.readString(); err != nil {
			return err
		}
	}
	sc.record(name)
	sc.fields = append(sc.fields, n)
	return nil
}

func (sc *hessianScanner) object(idx int) error {
	if idx < 0 || idx >= len(sc.fields) {
		return sc.malformed("undefined class index %d", idx)
	}
	return sc.values(sc.fields[idx])
}

// elementClass returns the class of the elements of a typed list:
// hessian names arrays "[" + element, e.g. [string or [com.example.Order.
// Any other list type is a collection class.
func elementClass(listType string) string {
	if !strings.HasPrefix(listType, "[") {
		return listType
	}
	element := strings.TrimLeft(listType, "[")
	if class, ok := hessianElementClasses[element]; ok {
		return class
	}
	return element
}

func isIntTag(tag byte) bool {
	return (tag >= 0x80 && tag <= 0xd7) || tag == hessian.BC_INT
}

func isLongTag(tag byte) bool {
	return tag >= 0xd8 || (tag >= 0x38 && tag <= 0x3f) ||
		tag == hessian.BC_LONG_INT || tag == hessian.BC_LONG
}

func isDoubleTag(tag byte) bool {
	return (tag >= hessian.BC_DOUBLE_ZERO && tag <= hessian.BC_DOUBLE_MILL) || tag == hessian.BC_DOUBLE
}

func isStringTag(tag byte) bool {
	return tag <= hessian.STRING_DIRECT_MAX || (tag >= hessian.BC_STRING_SHORT && tag <= 0x33) ||
		tag == hessian.BC_STRING || tag == hessian.BC_STRING_CHUNK
}

func isBinaryTag(tag byte) bool {
	return (tag >= hessian.BC_BINARY_DIRECT && tag <= 0x2f) || (tag >= hessian.BC_BINARY_SHORT && tag <= 0x37) ||
		tag == hessian.BC_BINARY || tag == hessian.BC_BINARY_CHUNK
}

func isListTag(tag byte) bool {
	return tag == hessian.BC_LIST_VARIABLE || tag == hessian.BC_LIST_FIXED ||
		tag == hessian.BC_LIST_VARIABLE_UNTYPED || tag == hessian.BC_LIST_FIXED_UNTYPED ||
		(tag >= hessian.BC_LIST_DIRECT && tag <= 0x7f)
}
