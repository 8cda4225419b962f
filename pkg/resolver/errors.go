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
	"fmt"

	"mosn.io/deserguard/pkg/types"
)

// ErrBlocked matches any BlockedError
var ErrBlocked = errors.New("cannot be deserialized")

// BlockedError is returned for a class name found in the denylist.
// It is an I/O level failure, distinct from ClassNotFoundError.
type BlockedError struct {
	// Name is the class name declared by the stream
	Name string
	// Class is the denylisted class, the array component when Name is an array
	Class string
}

func (e *BlockedError) Error() string {
	if e.Class != "" && e.Class != e.Name {
		return fmt.Sprintf("cannot be deserialized: class %q is an array of denylisted class %q", e.Name, e.Class)
	}
	return fmt.Sprintf("cannot be deserialized: class %q is denylisted", e.Name)
}

func (e *BlockedError) Is(target error) bool {
	return target == ErrBlocked
}

// ClassNotFoundError is returned when no class loader knows the declared class.
// Cause is the class loader failure.
type ClassNotFoundError struct {
	Desc  *types.ObjectStreamClass
	Cause error
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("unable to load ObjectStreamClass [%s]: %v", e.Desc, e.Cause)
}

func (e *ClassNotFoundError) Unwrap() error {
	return e.Cause
}

// IsBlocked reports whether err, or any error it wraps, is a BlockedError
func IsBlocked(err error) bool {
	return errors.Is(err, ErrBlocked)
}

// IsClassNotFound reports whether err, or any error it wraps, is a ClassNotFoundError
func IsClassNotFound(err error) bool {
	var cnf *ClassNotFoundError
	return errors.As(err, &cnf)
}
