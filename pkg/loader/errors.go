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
	"fmt"
	"strings"
)

var (
	// ErrUnknownClass matches any UnknownClassError
	ErrUnknownClass = errors.New("unknown class")
	// ErrFrozen is returned when registering into a frozen registry
	ErrFrozen = errors.New("registry is frozen")
)

// UnknownClassError reports a class name that no source could resolve.
type UnknownClassError struct {
	Name    string
	Sources []string
}

func (e *UnknownClassError) Error() string {
	if len(e.Sources) == 0 {
		return fmt.Sprintf("unable to load class named [%s]", e.Name)
	}
	return fmt.Sprintf("unable to load class named [%s] from sources [%s]", e.Name, strings.Join(e.Sources, ","))
}

func (e *UnknownClassError) Is(target error) bool {
	return target == ErrUnknownClass
}
