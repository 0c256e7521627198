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
    `io/ioutil`
    `os`
    `path/filepath`
    `strings`
    `testing`

    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/require`
)

func TestMethodInfo_Thrift(t *testing.T) {
    mi := &MethodInfo {
        RegInfo      : RegInfo { NumIns: 2, NumRegs: 1, NumOuts: 3, NumCompilerTemps: 1, NumSSARegs: 9 },
        PromotionMap : []int32 { 0x01ff0501, -1, 0 },
    }
    buf, err := mi.MarshalBinary()
    require.NoError(t, err)
    t.Log(spew.Sdump(buf))
    var out MethodInfo
    require.NoError(t, out.UnmarshalBinary(buf))
    require.Equal(t, *mi, out)
}

func TestMethodInfo_Truncated(t *testing.T) {
    mi := &MethodInfo { PromotionMap: []int32 { 1, 2, 3 } }
    buf, err := mi.MarshalBinary()
    require.NoError(t, err)
    var out MethodInfo
    require.Error(t, out.UnmarshalBinary(buf[:len(buf) - 6]))
}

func TestDump_Name(t *testing.T) {
    require.Equal(t, "LFoo#.bar@I@V.ir", DumpName("LFoo;.bar(I)V"))
    require.Equal(t, "Ljava-lang-Object#.=init=@@V.ir", DumpName("Ljava/lang/Object;.<init>()V"))
    require.Equal(t, "LA+B#.f#x.ir", DumpName("LA$B;.f x"))
}

func TestDump_File(t *testing.T) {
    dir, err := ioutil.TempDir("", "mirbridge-dump-")
    require.NoError(t, err)
    defer os.RemoveAll(dir)
    fn, bb := newTestFunction()
    fn.Info = &MethodInfo { RegInfo: RegInfo { NumIns: 2, NumRegs: 1 } }
    bb.CreateRet(fn.Args[1])
    path, err := Dump(fn, dir, "cpu: test")
    require.NoError(t, err)
    require.Equal(t, filepath.Join(dir, "LFoo#.add@II@I.ir"), path)
    data, err := ioutil.ReadFile(path)
    require.NoError(t, err)
    s := string(data)
    require.True(t, strings.HasPrefix(s, "; cpu: test\ndefine i32"), s)
    require.Contains(t, s, "; method-info: ")
}

func TestDump_ReadInfo(t *testing.T) {
    dir := t.TempDir()
    fn, bb := newTestFunction()
    fn.Info = &MethodInfo {
        RegInfo      : RegInfo { NumIns: 2, NumRegs: 1 },
        PromotionMap : []int32 { 0x0000ff00, 0x0303ff01, 0x0000ff00, 0x0000ff00 },
    }
    bb.CreateRet(fn.Args[1])
    path, err := Dump(fn, dir)
    require.NoError(t, err)
    data, err := ioutil.ReadFile(path)
    require.NoError(t, err)
    mi, err := ReadDumpInfo(string(data))
    require.NoError(t, err)
    require.Equal(t, fn.Info, mi)
    _, err = ReadDumpInfo(fn.String())
    require.Error(t, err)
    _, err = ReadDumpInfo("; method-info: zz\n")
    require.Error(t, err)
}
