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

package resolver

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mosn.io/deserguard/pkg/denylist"
	"mosn.io/deserguard/pkg/loader"
	"mosn.io/deserguard/pkg/metrics"
	"mosn.io/deserguard/pkg/mock"
	"mosn.io/deserguard/pkg/types"
)

func osc(name string) *types.ObjectStreamClass {
	return &types.ObjectStreamClass{Name: name, SerializationID: 2}
}

func TestDenylistedNeverReachLoader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cl := mock.NewMockClassLoader(ctrl)
	cl.EXPECT().ForName(gomock.Any()).Times(0)

	r := New(WithLoader(cl))
	for _, name := range denylist.Default().Entries() {
		typ, err := r.Resolve(osc(name))
		assert.Nil(t, typ)
		require.Error(t, err)
		assert.True(t, IsBlocked(err), name)
		assert.False(t, IsClassNotFound(err), name)
		var be *BlockedError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, name, be.Name)
	}
}

func TestDelegateHandleReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	want := reflect.TypeOf(struct{ A int }{})
	cl := mock.NewMockClassLoader(ctrl)
	cl.EXPECT().ForName("com.example.Thing").Return(want, nil).Times(1)

	typ, err := New(WithLoader(cl)).Resolve(osc("com.example.Thing"))
	require.NoError(t, err)
	assert.Equal(t, want, typ)
}

func TestUnresolvableWrapsCause(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cause := &loader.UnknownClassError{Name: "com.example.NoSuchClass"}
	cl := mock.NewMockClassLoader(ctrl)
	cl.EXPECT().ForName("com.example.NoSuchClass").Return(nil, cause)

	desc := osc("com.example.NoSuchClass")
	_, err := New(WithLoader(cl)).Resolve(desc)
	require.Error(t, err)
	assert.True(t, IsClassNotFound(err))
	assert.False(t, IsBlocked(err))

	var cnf *ClassNotFoundError
	require.True(t, errors.As(err, &cnf))
	assert.Equal(t, desc, cnf.Desc)
	assert.True(t, cnf.Cause == cause)
	assert.True(t, errors.Is(err, loader.ErrUnknownClass))
	assert.Contains(t, err.Error(), "com.example.NoSuchClass")
}

func TestScenarios(t *testing.T) {
	r := New()

	_, err := r.Resolve(osc("org.apache.commons.collections.functors.InvokerTransformer"))
	assert.True(t, IsBlocked(err))

	typ, err := r.Resolve(osc("java.lang.String"))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), typ)

	_, err = r.Resolve(osc("com.example.NoSuchClass"))
	assert.True(t, IsClassNotFound(err))
}

func TestLeadingSpaceEntryKeptLiterally(t *testing.T) {
	reg := loader.NewRegistry("spring")
	require.NoError(t, reg.Register("org.springframework.beans.factory.ObjectFactory", struct{}{}))
	r := New(WithLoader(loader.NewChain(reg)))

	// the unspaced name is not denylisted and resolves normally
	typ, err := r.Resolve(osc("org.springframework.beans.factory.ObjectFactory"))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(struct{}{}), typ)

	_, err = r.Resolve(osc(" org.springframework.beans.factory.ObjectFactory"))
	assert.True(t, IsBlocked(err))
}

func TestEmptyDescriptor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cl := mock.NewMockClassLoader(ctrl)

	r := New(WithLoader(cl))
	_, err := r.Resolve(nil)
	assert.True(t, IsClassNotFound(err))
	_, err = r.Resolve(osc(""))
	assert.True(t, IsClassNotFound(err))
}

func TestCustomDenylist(t *testing.T) {
	reg := loader.NewRegistry("app")
	require.NoError(t, reg.Register("com.evil.Gadget", struct{}{}))
	r := New(
		WithDenylist(denylist.Default().With("com.evil.Gadget")),
		WithLoader(loader.NewChain(reg)),
	)
	_, err := r.Resolve(osc("com.evil.Gadget"))
	assert.True(t, IsBlocked(err))
	assert.Equal(t, 10, r.Denylist().Len())
}

func TestArrayOfDenylistedClass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cl := mock.NewMockClassLoader(ctrl)
	r := New(
		WithDenylist(denylist.Default().With("com.evil.Gadget")),
		WithLoader(cl),
	)

	gadget := "com.evil.Gadget"
	templates := "xalan.internal.xsltc.trax.TemplatesImpl"
	cases := []struct {
		name  string
		class string
	}{
		{"[L" + gadget + ";", gadget},
		{"[[L" + gadget + ";", gadget},
		{gadget + "[]", gadget},
		{gadget + "[][]", gadget},
		{"[L" + templates + ";", templates},
	}
	cl.EXPECT().ForName(gomock.Any()).Times(0)
	for _, c := range cases {
		_, err := r.Resolve(osc(c.name))
		require.True(t, IsBlocked(err), c.name)
		var be *BlockedError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, c.name, be.Name)
		assert.Equal(t, c.class, be.Class)
		assert.Contains(t, err.Error(), c.class)
	}
}

func TestArrayComponentsMatchExactly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	want := reflect.TypeOf([]struct{}{})
	cl := mock.NewMockClassLoader(ctrl)
	r := New(
		WithDenylist(denylist.Default().With("com.evil.Gadget")),
		WithLoader(cl),
	)

	// neither prefixes nor malformed descriptors are denylisted
	for _, name := range []string{"[Lcom.evil.GadgetFactory;", "com.evil.Gadgets[]", "[Lcom.evil.Gadget"} {
		cl.EXPECT().ForName(name).Return(want, nil)
		typ, err := r.Resolve(osc(name))
		require.NoError(t, err, name)
		assert.Equal(t, want, typ)
	}
}

func TestMetrics(t *testing.T) {
	metrics.ResetAll()
	defer metrics.ResetAll()

	labels := map[string]string{"test": "resolver"}
	r := New(WithMetrics(labels))
	_, _ = r.Resolve(osc("java.lang.Long"))
	_, _ = r.Resolve(osc("org.codehaus.groovy.runtime.MethodClosure"))
	_, _ = r.Resolve(osc("com.example.Missing"))
	_, _ = r.Resolve(osc("com.example.Missing"))

	m := metrics.GetMetricsFilter("resolver.test.resolver")
	require.NotNil(t, m)
	assert.Equal(t, int64(4), m.Counter(metrics.ResolveTotal).Count())
	assert.Equal(t, int64(1), m.Counter(metrics.ResolveSuccess).Count())
	assert.Equal(t, int64(1), m.Counter(metrics.ResolveBlocked).Count())
	assert.Equal(t, int64(2), m.Counter(metrics.ResolveNotFound).Count())
	assert.Equal(t, int64(9), m.Gauge(metrics.DenylistSize).Value())
}

func TestConcurrentResolve(t *testing.T) {
	r := New()
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				typ, err := r.Resolve(osc("java.lang.Integer"))
				assert.NoError(t, err)
				assert.Equal(t, reflect.TypeOf(int32(0)), typ)
				_, err = r.Resolve(osc("xalan.internal.xsltc.trax.TemplatesImpl"))
				assert.True(t, IsBlocked(err))
			}
		}()
	}
	wg.Wait()
}
