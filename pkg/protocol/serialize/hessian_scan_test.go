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
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hessian2 direct string: length tag followed by the bytes
func directString(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func TestClassNamesEncoded(t *testing.T) {
	s := &Hessian2Serialization{}
	cases := []struct {
		name  string
		value interface{}
		want  []string
	}{
		{"scalar", "hello", nil},
		{"pojo", &user{Name: "a", Age: 1}, []string{"com.example.serialize.User"}},
		{"map", map[interface{}]interface{}{"u": &user{Name: "b"}, "n": int64(3)}, []string{"com.example.serialize.User"}},
		{"list", []interface{}{&user{Name: "c"}, &user{Name: "d"}, "x"}, []string{"com.example.serialize.User"}},
		{"strings", []string{"a", "b"}, []string{"java.lang.String"}},
		{"ints", []int32{1, 2}, []string{"int"}},
	}
	for _, c := range cases {
		data, err := s.Marshal(c.value)
		require.NoError(t, err, c.name)
		names, err := s.ClassNames(data)
		require.NoError(t, err, c.name)
		assert.Equal(t, c.want, names, c.name)
	}
}

func TestClassNamesTypedContainers(t *testing.T) {
	s := &Hessian2Serialization{}

	// typed map: M type Z
	data := append([]byte{'M'}, directString("com.evil.Gadget")...)
	data = append(data, 'Z')
	names, err := s.ClassNames(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.evil.Gadget"}, names)

	// empty typed list of gadgets: x70 type
	data = append([]byte{0x70}, directString("[com.evil.Gadget")...)
	names, err = s.ClassNames(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.evil.Gadget"}, names)

	// collection list type and a class definition inside its elements
	data = append([]byte{0x71}, directString("java.util.HashSet")...)
	data = append(data, 'C')
	data = append(data, directString("com.evil.Gadget")...)
	data = append(data, 0x91) // one field
	data = append(data, directString("cmd")...)
	data = append(data, 0x60)
	data = append(data, directString("id")...)
	names, err = s.ClassNames(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"java.util.HashSet", "com.evil.Gadget"}, names)
}

func TestClassNamesMalformed(t *testing.T) {
	s := &Hessian2Serialization{}
	pojo, err := s.Marshal(&user{Name: "alice", Age: 30})
	require.NoError(t, err)

	cases := map[string][]byte{
		"empty":          nil,
		"truncated":      pojo[:len(pojo)-1],
		"trailing":       append(append([]byte{}, pojo...), 'N'),
		"unknown tag":    {0x40},
		"undefined":      {0x60},
		"end tag":        {'Z'},
		"negative list":  {'X', 0x8f},
		"missing end":    {0x57, 'N'},
		"short string":   {0x05, 'a', 'b'},
		"field not name": {'C', 0x01, 'A', 0x91, 0x91, 0x60, 'N'},
		"too deep":       bytes.Repeat([]byte{0x57}, maxScanDepth+1),
	}
	for name, data := range cases {
		_, err := s.ClassNames(data)
		assert.True(t, errors.Is(err, ErrMalformedPayload), name)
	}
}

func TestElementClass(t *testing.T) {
	assert.Equal(t, "java.lang.String", elementClass("[string"))
	assert.Equal(t, "java.lang.Object", elementClass("[[object"))
	assert.Equal(t, "com.example.Order", elementClass("[com.example.Order"))
	assert.Equal(t, "java.util.ArrayList", elementClass("java.util.ArrayList"))
	assert.Equal(t, "", elementClass("["))
}
