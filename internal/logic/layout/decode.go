package layout

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// maxZeroWidthVecLen 零宽元素（如空 struct）的 vec 最大计数
const maxZeroWidthVecLen = 1 << 16

// Decode 按布局解码，要求恰好消费完全部字节。
//
// 解码结果类型：u8/u16/u32/u64 -> uint8/uint16/uint32/uint64，bool -> bool，
// string -> string，bytes -> []byte，option -> nil 或元素值，vec -> []any，struct -> Values。
// 结果可直接交回 Encode 得到相同字节。
func Decode(l *FieldLayout, data []byte) (any, error) {
	v, n, err := DecodePrefix(l, data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, &DecodingError{Offset: n, Reason: fmt.Sprintf("%d trailing bytes", len(data)-n)}
	}
	return v, nil
}

// DecodePrefix 从 data 开头解码一个值，返回消费的字节数，允许尾部有剩余
func DecodePrefix(l *FieldLayout, data []byte) (any, int, error) {
	d := &decoder{data: data}
	v, err := d.read(l, "")
	if err != nil {
		return nil, 0, err
	}
	return v, d.off, nil
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) take(n int, path string) ([]byte, error) {
	if n < 0 || d.remaining() < n {
		return nil, &DecodingError{
			Path:   path,
			Offset: d.off,
			Reason: fmt.Sprintf("unexpected end of data: need %d bytes, have %d", n, d.remaining()),
		}
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) flag(path string) (bool, error) {
	b, err := d.take(1, path)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, &DecodingError{Path: path, Offset: d.off - 1, Reason: fmt.Sprintf("invalid flag byte 0x%02x", b[0])}
}

func (d *decoder) read(l *FieldLayout, path string) (any, error) {
	switch l.kind {
	case KindU8:
		b, err := d.take(1, path)
		if err != nil {
			return nil, err
		}
		return b[0], nil

	case KindU16:
		b, err := d.take(2, path)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint16(b), nil

	case KindU32:
		b, err := d.take(4, path)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint32(b), nil

	case KindU64:
		b, err := d.take(8, path)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint64(b), nil

	case KindBool:
		return d.flag(path)

	case KindString:
		b, err := d.take(4, path)
		if err != nil {
			return nil, err
		}
		n := binary.LittleEndian.Uint32(b)
		if uint64(n) > uint64(d.remaining()) {
			return nil, &DecodingError{Path: path, Offset: d.off, Reason: fmt.Sprintf("string length %d exceeds remaining %d bytes", n, d.remaining())}
		}
		s, _ := d.take(int(n), path)
		if !utf8.Valid(s) {
			return nil, &DecodingError{Path: path, Offset: d.off - int(n), Reason: "string is not valid UTF-8"}
		}
		return string(s), nil

	case KindFixedBytes:
		b, err := d.take(l.size, path)
		if err != nil {
			return nil, err
		}
		out := make([]byte, l.size)
		copy(out, b)
		return out, nil

	case KindOption:
		present, err := d.flag(path)
		if err != nil {
			return nil, err
		}
		if !present {
			return nil, nil
		}
		return d.read(l.elem, path)

	case KindVec:
		b, err := d.take(4, path)
		if err != nil {
			return nil, err
		}
		n := int(binary.LittleEndian.Uint32(b))
		if elemSize := l.elem.minSize(); elemSize > 0 {
			if uint64(n)*uint64(elemSize) > uint64(d.remaining()) {
				return nil, &DecodingError{Path: path, Offset: d.off, Reason: fmt.Sprintf("vec count %d exceeds remaining %d bytes", n, d.remaining())}
			}
		} else if n > maxZeroWidthVecLen {
			// 零宽元素不消耗输入，计数需要单独封顶
			return nil, &DecodingError{Path: path, Offset: d.off, Reason: fmt.Sprintf("vec count %d of zero-width elements exceeds %d", n, maxZeroWidthVecLen)}
		}
		out := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := d.read(l.elem, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case KindStruct:
		m := make(Values, len(l.fields))
		for _, f := range l.fields {
			v, err := d.read(f.Layout, childPath(path, f.Name))
			if err != nil {
				return nil, err
			}
			m[f.Name] = v
		}
		return m, nil
	}
	return nil, &DecodingError{Path: path, Offset: d.off, Reason: fmt.Sprintf("unsupported layout %s", l.kind)}
}
