// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"fmt"
	"reflect"
	"strings"
)

// ParameterValues maps parameter names to the values bound for one
// execution.
type ParameterValues map[string]interface{}

// Lookup returns the value bound to the given parameter.
func (p ParameterValues) Lookup(name string) (interface{}, error) {
	v, ok := p[name]
	if !ok {
		return nil, ErrParameterNotFound.New(name)
	}
	return v, nil
}

// IsNullValue reports whether v is nil, or a nil pointer, or a
// caller-supplied parameter holding a null value.
func IsNullValue(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case *DbParameter:
		return v == nil || IsNullValue(v.Value)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ListValue returns the elements of v when v is a list-valued parameter,
// i.e. any slice except []byte.
func ListValue(v interface{}) ([]interface{}, bool) {
	switch v := v.(type) {
	case []interface{}:
		return v, true
	case []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	values := make([]interface{}, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true
}

// DbParameter is a driver parameter attached to a command.
type DbParameter struct {
	Name     string
	Value    interface{}
	Mapping  *TypeMapping
	Nullable bool
}

func (p *DbParameter) String() string {
	return fmt.Sprintf("@%s=%v", p.Name, p.Value)
}

// Command is an executable command: the SQL text plus its bound parameters.
type Command struct {
	Text       string
	Parameters []*DbParameter
}

// AddParameter appends a parameter to the command.
func (c *Command) AddParameter(p *DbParameter) {
	c.Parameters = append(c.Parameters, p)
}

// Reset clears the command so it can be reused.
func (c *Command) Reset() {
	c.Text = ""
	for i := range c.Parameters {
		c.Parameters[i] = nil
	}
	c.Parameters = c.Parameters[:0]
}

func (c *Command) String() string {
	if len(c.Parameters) == 0 {
		return c.Text
	}
	params := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s [%s]", c.Text, strings.Join(params, ", "))
}

// RelationalParameter binds a logical parameter value into one or more
// driver parameters of a command.
type RelationalParameter interface {
	// InvariantName is the name of the logical parameter this binds.
	InvariantName() string
	// BindValue adds the driver parameters for the given value to cmd.
	BindValue(cmd *Command, value interface{}) error
}

// BindParameters binds each relational parameter to its value in values.
func BindParameters(cmd *Command, params []RelationalParameter, values ParameterValues) error {
	for _, p := range params {
		if f, ok := p.(*FixedParameter); ok {
			cmd.AddParameter(f.Parameter)
			continue
		}
		v, err := values.Lookup(p.InvariantName())
		if err != nil {
			return err
		}
		if err := p.BindValue(cmd, v); err != nil {
			return err
		}
	}
	return nil
}

// TypeMappedParameter binds a value as a single typed driver parameter.
type TypeMappedParameter struct {
	Invariant string
	Name      string
	Mapping   *TypeMapping
	Nullable  bool
}

var _ RelationalParameter = (*TypeMappedParameter)(nil)

// InvariantName implements the RelationalParameter interface.
func (p *TypeMappedParameter) InvariantName() string { return p.Invariant }

// BindValue implements the RelationalParameter interface.
func (p *TypeMappedParameter) BindValue(cmd *Command, value interface{}) error {
	cmd.AddParameter(&DbParameter{
		Name:     p.Name,
		Value:    value,
		Mapping:  p.Mapping,
		Nullable: p.Nullable,
	})
	return nil
}

// RawParameter binds a caller-supplied DbParameter verbatim.
type RawParameter struct {
	Invariant string
	Name      string
}

var _ RelationalParameter = (*RawParameter)(nil)

// InvariantName implements the RelationalParameter interface.
func (p *RawParameter) InvariantName() string { return p.Invariant }

// BindValue implements the RelationalParameter interface.
func (p *RawParameter) BindValue(cmd *Command, value interface{}) error {
	dbp, ok := value.(*DbParameter)
	if !ok {
		return ErrInvalidParameterValue.New(p.Invariant, "a *DbParameter", value)
	}
	if dbp.Name == "" {
		dbp.Name = p.Name
	}
	cmd.AddParameter(dbp)
	return nil
}

// CompositeParameter binds a list-valued parameter, one sub-parameter per
// element.
type CompositeParameter struct {
	Invariant  string
	Parameters []RelationalParameter
}

var _ RelationalParameter = (*CompositeParameter)(nil)

// InvariantName implements the RelationalParameter interface.
func (p *CompositeParameter) InvariantName() string { return p.Invariant }

// BindValue implements the RelationalParameter interface.
func (p *CompositeParameter) BindValue(cmd *Command, value interface{}) error {
	values, ok := ListValue(value)
	if !ok {
		return ErrInvalidParameterValue.New(p.Invariant, "a list", value)
	}
	if len(values) != len(p.Parameters) {
		return ErrInvalidParameterValue.New(p.Invariant, fmt.Sprintf("a list of %d values", len(p.Parameters)), value)
	}
	for i, sub := range p.Parameters {
		if err := sub.BindValue(cmd, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// FixedParameter binds a driver parameter that was given as a constant when
// the query was built. It doesn't read any parameter value.
type FixedParameter struct {
	Parameter *DbParameter
}

var _ RelationalParameter = (*FixedParameter)(nil)

// InvariantName implements the RelationalParameter interface.
func (p *FixedParameter) InvariantName() string { return p.Parameter.Name }

// BindValue implements the RelationalParameter interface.
func (p *FixedParameter) BindValue(cmd *Command, _ interface{}) error {
	cmd.AddParameter(p.Parameter)
	return nil
}
