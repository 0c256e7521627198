/*
 * Copyright 2022 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `strconv`
)

// Value is anything that can be an instruction operand.
type Value interface {
    Type() Type
    Name() string
    String() string
}

// Named is implemented by values whose name can be changed.
type Named interface {
    Value
    SetName(name string)
}

func operand(v Value) string {
    if v == nil {
        return "<nil>"
    } else {
        return v.Type().String() + " " + v.String()
    }
}

func refName(name string) string {
    if name == "" {
        return "%<anon>"
    } else {
        return "%" + name
    }
}

// Argument is a formal parameter of a function.
type Argument struct {
    Index int
    name  string
    typ   Type
}

func (self *Argument) Type() Type           { return self.typ }
func (self *Argument) Name() string         { return self.name }
func (self *Argument) SetName(name string)  { self.name = name }
func (self *Argument) String() string       { return refName(self.name) }

// ConstInt is an integer literal.
type ConstInt struct {
    Value int64
    typ   Type
}

func (self *ConstInt) Type() Type       { return self.typ }
func (self *ConstInt) Name() string     { return "" }
func (self *ConstInt) String() string   { return strconv.FormatInt(self.Value, 10) }

// ConstNull is the null reference.
type ConstNull struct{}

func (ConstNull) Type() Type       { return Object }
func (ConstNull) Name() string     { return "" }
func (ConstNull) String() string   { return "null" }

// Use is one operand slot referring to a value.
type Use struct {
    User  *Instr
    Index int
}

// Placeholder stands for a value whose definition has not been emitted yet.
// It records every operand slot that refers to it so that the definition can
// be patched in later.
type Placeholder struct {
    name string
    typ  Type
    uses []Use
}

func NewPlaceholder(name string, typ Type) *Placeholder {
    return &Placeholder { name: name, typ: typ }
}

func (self *Placeholder) Type() Type       { return self.typ }
func (self *Placeholder) Name() string     { return self.name }
func (self *Placeholder) String() string   { return refName(self.name) + "?" }
func (self *Placeholder) Uses() []Use      { return self.uses }

// ReplaceUses rewrites every recorded use to refer to v instead.
func (self *Placeholder) ReplaceUses(v Value) {
    for _, u := range self.uses {
        if u.User.Operands[u.Index] == Value(self) {
            u.User.setOperand(u.Index, v)
        }
    }
    self.uses = nil
}

func track(v Value, user *Instr, index int) {
    if p, ok := v.(*Placeholder); ok {
        p.uses = append(p.uses, Use { User: user, Index: index })
    }
}
