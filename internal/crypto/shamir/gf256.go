package shamir

// gf256Exp and gf256Log are lookup tables for GF(2^8) multiplication using
// generator 0x03 and the AES reduction polynomial x^8+x^4+x^3+x+1 (0x11b),
// the standard representation used by AES and by Shamir-over-GF(256)
// implementations.
var gf256Exp [512]byte
var gf256Log [256]byte

func init() {
	x := byte(1)
	for i := 0; i < 255; i++ {
		gf256Exp[i] = x
		gf256Log[x] = byte(i)
		x = gf256MulGenerator(x)
	}
	for i := 255; i < 512; i++ {
		gf256Exp[i] = gf256Exp[i-255]
	}
}

// xtime multiplies x by 0x02 in GF(2^8), reducing modulo the AES
// polynomial when the high bit overflows. 0x02 has order 51 in this
// field, so it cannot seed the exp/log tables on its own.
func xtime(x byte) byte {
	hi := x & 0x80
	x <<= 1
	if hi != 0 {
		x ^= 0x1b
	}
	return x
}

// gf256MulGenerator multiplies x by the generator 0x03 (= 0x02 XOR 0x01,
// i.e. xtime(x) XOR x), which has order 255 and so walks every nonzero
// field element exactly once.
func gf256MulGenerator(x byte) byte {
	return xtime(x) ^ x
}

// gf256Add is addition in GF(2^8), which is XOR.
func gf256Add(a, b byte) byte {
	return a ^ b
}

// gf256Mul multiplies two GF(2^8) elements using the log/exp tables.
// Either operand being zero yields zero.
func gf256Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gf256Exp[int(gf256Log[a])+int(gf256Log[b])]
}

// gf256Div divides a by b in GF(2^8). b must be nonzero.
func gf256Div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	logDiff := int(gf256Log[a]) - int(gf256Log[b])
	if logDiff < 0 {
		logDiff += 255
	}
	return gf256Exp[logDiff]
}
