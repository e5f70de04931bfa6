/*
 * Copyright 2026 Joshua Jones <joshua.jones.software@gmail.com>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      www.apache.org
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package byteconv formats register and opcode values as fixed width
// upper-case hexadecimal without going through fmt.
package byteconv

const hextableUpper = "0123456789ABCDEF"

// Btoh renders src as hex and keeps the last n digits. n is clamped to the
// number of digits available.
func Btoh(src []byte, n int) string {
	dst := make([]byte, len(src)*2)
	j := 0
	for _, v := range src {
		dst[j] = hextableUpper[v>>4]
		dst[j+1] = hextableUpper[v&0x0f]
		j += 2
	}
	if n > len(dst) {
		n = len(dst)
	}
	if n < 0 {
		n = 0
	}
	return string(dst[len(dst)-n:])
}

// U16tob splits i into its big-endian bytes.
func U16tob(i uint16) []byte {
	var b [2]byte
	b[0] = byte(i >> 8)
	b[1] = byte(i)
	return b[:]
}

// U16toh is Btoh over the big-endian bytes of i.
func U16toh(i uint16, n int) string {
	return Btoh(U16tob(i), n)
}

// U8toh is Btoh over a single byte.
func U8toh(i uint8, n int) string {
	return Btoh([]byte{i}, n)
}

// Nibble returns the hex digit for the low four bits of v.
func Nibble(v uint8) byte {
	return hextableUpper[v&0x0f]
}
