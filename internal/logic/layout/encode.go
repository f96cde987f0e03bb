package layout

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"sort"
	"unicode/utf8"
)

// Values 结构体字段值，键为字段名。编码顺序由布局决定，与 map 顺序无关。
type Values = map[string]any

// Encode 按布局把值编码为字节。失败时不返回任何部分结果。
//
// 取值约定：
//   - 整数字段接受任意 Go 整型，超出声明宽度或为负数时报 EncodingError
//   - FixedBytes 接受 []byte、[N]byte 或实现 Bytes() []byte 的值，长度不符报 LayoutMismatchError
//   - Option 字段为 nil（或 nil 指针/切片/map）时写 0，否则写 1 再写值；非 nil 指针会先解引用
//   - Struct 字段必须是 Values；缺失的键只允许出现在 Option 字段上
func Encode(l *FieldLayout, v any) ([]byte, error) {
	buf, err := appendValue(make([]byte, 0, 64), l, v, "")
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func appendValue(buf []byte, l *FieldLayout, v any, path string) ([]byte, error) {
	switch l.kind {
	case KindU8:
		n, err := toUint(v, math.MaxUint8, l.kind, path)
		if err != nil {
			return nil, err
		}
		return append(buf, byte(n)), nil

	case KindU16:
		n, err := toUint(v, math.MaxUint16, l.kind, path)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(n)), nil

	case KindU32:
		n, err := toUint(v, math.MaxUint32, l.kind, path)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(n)), nil

	case KindU64:
		n, err := toUint(v, math.MaxUint64, l.kind, path)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(buf, n), nil

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("want bool, got %T", v)}
		}
		if b {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("want string, got %T", v)}
		}
		if !utf8.ValidString(s) {
			return nil, &EncodingError{Path: path, Reason: "string is not valid UTF-8"}
		}
		if uint64(len(s)) > math.MaxUint32 {
			return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("string length %d overflows u32", len(s))}
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
		return append(buf, s...), nil

	case KindFixedBytes:
		b, err := toBytes(v, path)
		if err != nil {
			return nil, err
		}
		if len(b) != l.size {
			return nil, &LayoutMismatchError{Path: path, Want: l.size, Got: len(b)}
		}
		return append(buf, b...), nil

	case KindOption:
		inner, present := optionValue(v)
		if !present {
			return append(buf, 0), nil
		}
		return appendValue(append(buf, 1), l.elem, inner, path)

	case KindVec:
		return appendVec(buf, l, v, path)

	case KindStruct:
		return appendStruct(buf, l, v, path)
	}
	return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("unsupported layout %s", l.kind)}
}

func appendVec(buf []byte, l *FieldLayout, v any, path string) ([]byte, error) {
	if v == nil {
		return nil, &EncodingError{Path: path, Reason: "want slice, got <nil>"}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("want slice, got %T", v)}
	}
	n := rv.Len()
	if uint64(n) > math.MaxUint32 {
		return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("vec length %d overflows u32", n)}
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(n))
	var err error
	for i := 0; i < n; i++ {
		buf, err = appendValue(buf, l.elem, rv.Index(i).Interface(), indexPath(path, i))
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func appendStruct(buf []byte, l *FieldLayout, v any, path string) ([]byte, error) {
	m, ok := v.(Values)
	if !ok {
		return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("want map[string]any, got %T", v)}
	}

	// 未声明的键视为调用方错误，按键名排序保证报错稳定
	var unknown []string
	for k := range m {
		if _, declared := l.Field(k); !declared {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &EncodingError{Path: childPath(path, unknown[0]), Reason: "field not declared in layout"}
	}

	var err error
	for _, f := range l.fields {
		fieldPath := childPath(path, f.Name)
		fv, present := m[f.Name]
		if !present {
			if f.Layout.kind != KindOption {
				return nil, &EncodingError{Path: fieldPath, Reason: "missing required field"}
			}
			fv = nil
		}
		buf, err = appendValue(buf, f.Layout, fv, fieldPath)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// optionValue 判断 Option 的取值是否存在，非 nil 指针解引用后返回
func optionValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		return rv.Elem().Interface(), true
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return nil, false
		}
	}
	return v, true
}

func toUint(v any, limit uint64, kind Kind, path string) (uint64, error) {
	if v == nil {
		return 0, &EncodingError{Path: path, Reason: fmt.Sprintf("want %s, got <nil>", kind)}
	}
	rv := reflect.ValueOf(v)
	var n uint64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return 0, &EncodingError{Path: path, Reason: fmt.Sprintf("negative value %d for %s", i, kind)}
		}
		n = uint64(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n = rv.Uint()
	default:
		return 0, &EncodingError{Path: path, Reason: fmt.Sprintf("want %s, got %T", kind, v)}
	}
	if n > limit {
		return 0, &EncodingError{Path: path, Reason: fmt.Sprintf("value %d overflows %s", n, kind)}
	}
	return n, nil
}

type byteser interface {
	Bytes() []byte
}

func toBytes(v any, path string) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case byteser:
		return b.Bytes(), nil
	case nil:
		return nil, &EncodingError{Path: path, Reason: "want bytes, got <nil>"}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), nil
		}
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			for i := range out {
				out[i] = byte(rv.Index(i).Uint())
			}
			return out, nil
		}
	}
	return nil, &EncodingError{Path: path, Reason: fmt.Sprintf("want bytes, got %T", v)}
}
