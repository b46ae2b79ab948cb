//go:build rp2040

package fmtx

import "io"

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	var b builder
	b.format(format, a...)
	return w.Write(b.buf)
}

func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

// Supports %s %d %v %%. Anything else is written literally.

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct{ buf []byte }

func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) any(v any) {
	switch x := v.(type) {
	case string:
		b.str(x)
	case interface{ String() string }:
		b.str(x.String())
	case error:
		b.str(x.Error())
	case bool:
		if x {
			b.str("true")
		} else {
			b.str("false")
		}
	case int:
		b.buf = appendInt(b.buf, int64(x))
	case int32:
		b.buf = appendInt(b.buf, int64(x))
	case int64:
		b.buf = appendInt(b.buf, x)
	case uint:
		b.buf = appendUint(b.buf, uint64(x))
	case uint8:
		b.buf = appendUint(b.buf, uint64(x))
	case uint32:
		b.buf = appendUint(b.buf, uint64(x))
	case uint64:
		b.buf = appendUint(b.buf, x)
	default:
		b.str("<?>")
	}
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.buf = append(b.buf, c)
			continue
		}
		i++
		verb := format[i]
		if verb == '%' {
			b.buf = append(b.buf, '%')
			continue
		}
		if ai >= len(args) {
			b.str("%!")
			b.buf = append(b.buf, verb)
			continue
		}
		switch verb {
		case 's', 'd', 'v':
			b.any(args[ai])
		default:
			b.buf = append(b.buf, '%', verb)
		}
		ai++
	}
}
