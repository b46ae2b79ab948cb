package fmtx

// appendUint appends the decimal form of u to dst.
func appendUint(dst []byte, u uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	return append(dst, tmp[i:]...)
}

// appendInt appends the decimal form of n to dst. math.MinInt64 is handled
// by negating in unsigned space.
func appendInt(dst []byte, n int64) []byte {
	if n < 0 {
		return appendUint(append(dst, '-'), uint64(-(n+1))+1)
	}
	return appendUint(dst, uint64(n))
}
