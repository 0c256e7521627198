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
    `fmt`

    `github.com/apache/thrift/lib/go/thrift`
)

// RegInfo is the register layout of a method.
type RegInfo struct {
    NumIns           int32
    NumRegs          int32
    NumOuts          int32
    NumCompilerTemps int32
    NumSSARegs       int32
}

func (self RegInfo) values() []int32 {
    return []int32 {
        self.NumIns,
        self.NumRegs,
        self.NumOuts,
        self.NumCompilerTemps,
        self.NumSSARegs,
    }
}

// MethodInfo is the side metadata record of a function, carried by the
// method_info intrinsic. Each promotion map entry is one packed word.
type MethodInfo struct {
    RegInfo      RegInfo
    PromotionMap []int32
}

func (self *MethodInfo) String() string {
    r := self.RegInfo
    return fmt.Sprintf(
        "{ins=%d, regs=%d, outs=%d, temps=%d, ssa=%d, promotion=%d}",
        r.NumIns, r.NumRegs, r.NumOuts, r.NumCompilerTemps, r.NumSSARegs, len(self.PromotionMap),
    )
}

const (
    fieldRegInfo      = 1
    fieldPromotionMap = 2
)

// MarshalBinary encodes the record with the Thrift binary protocol, as a
// struct with two i32 list fields.
func (self *MethodInfo) MarshalBinary() ([]byte, error) {
    buf := thrift.NewTMemoryBufferLen(64 + 4 * len(self.PromotionMap))
    out := thrift.NewTBinaryProtocolTransport(buf)

    /* struct header */
    if err := out.WriteStructBegin("MethodInfo"); err != nil {
        return nil, err
    }

    /* both fields */
    if err := writeList(out, "reg_info", fieldRegInfo, self.RegInfo.values()); err != nil {
        return nil, err
    } else if err = writeList(out, "promotion_map", fieldPromotionMap, self.PromotionMap); err != nil {
        return nil, err
    }

    /* end of struct */
    if err := out.WriteFieldStop(); err != nil {
        return nil, err
    } else if err = out.WriteStructEnd(); err != nil {
        return nil, err
    } else {
        return buf.Bytes(), nil
    }
}

func writeList(out thrift.TProtocol, name string, id int16, vals []int32) error {
    if err := out.WriteFieldBegin(name, thrift.LIST, id); err != nil {
        return err
    } else if err = out.WriteListBegin(thrift.I32, len(vals)); err != nil {
        return err
    }

    /* list elements */
    for _, v := range vals {
        if err := out.WriteI32(v); err != nil {
            return err
        }
    }

    /* end of field */
    if err := out.WriteListEnd(); err != nil {
        return err
    } else {
        return out.WriteFieldEnd()
    }
}

// UnmarshalBinary is the inverse of MarshalBinary. Unknown fields are
// skipped.
func (self *MethodInfo) UnmarshalBinary(data []byte) error {
    buf := thrift.NewTMemoryBufferLen(len(data))
    in := thrift.NewTBinaryProtocolTransport(buf)

    /* load the data */
    if _, err := buf.Write(data); err != nil {
        return err
    } else if _, err = in.ReadStructBegin(); err != nil {
        return err
    }

    /* read every field */
    for {
        _, tt, id, err := in.ReadFieldBegin()
        if err != nil {
            return err
        }

        /* end of struct */
        if tt == thrift.STOP {
            break
        }

        /* known fields */
        switch {
            case id == fieldRegInfo && tt == thrift.LIST      : err = self.readRegInfo(in)
            case id == fieldPromotionMap && tt == thrift.LIST : self.PromotionMap, err = readList(in)
            default                                             : err = in.Skip(tt)
        }

        /* check for errors */
        if err != nil {
            return err
        } else if err = in.ReadFieldEnd(); err != nil {
            return err
        }
    }

    /* end of struct */
    return in.ReadStructEnd()
}

func (self *MethodInfo) readRegInfo(in thrift.TProtocol) error {
    vals, err := readList(in)
    if err != nil {
        return err
    }

    /* must have all the counters */
    if len(vals) != 5 {
        return fmt.Errorf("ir: invalid register info: %d values", len(vals))
    }

    /* unpack the counters */
    self.RegInfo = RegInfo {
        NumIns           : vals[0],
        NumRegs          : vals[1],
        NumOuts          : vals[2],
        NumCompilerTemps : vals[3],
        NumSSARegs       : vals[4],
    }
    return nil
}

func readList(in thrift.TProtocol) ([]int32, error) {
    et, n, err := in.ReadListBegin()
    if err != nil {
        return nil, err
    }

    /* only i32 lists are expected */
    if et != thrift.I32 {
        return nil, fmt.Errorf("ir: unexpected list element type %d", et)
    }

    /* read the elements */
    ret := make([]int32, n)
    for i := range ret {
        if ret[i], err = in.ReadI32(); err != nil {
            return nil, err
        }
    }

    /* end of list */
    if err = in.ReadListEnd(); err != nil {
        return nil, err
    } else {
        return ret, nil
    }
}
