package layout

import "fmt"

// Kind 字段布局的类型
type Kind uint8

const (
	KindU8 Kind = iota + 1
	KindU16
	KindU32
	KindU64
	KindBool
	KindString
	KindFixedBytes
	KindOption
	KindVec
	KindStruct
)

var kindNames = map[Kind]string{
	KindU8:         "u8",
	KindU16:        "u16",
	KindU32:        "u32",
	KindU64:        "u64",
	KindBool:       "bool",
	KindString:     "string",
	KindFixedBytes: "bytes",
	KindOption:     "option",
	KindVec:        "vec",
	KindStruct:     "struct",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// FieldLayout 是 borsh 风格的二进制布局节点。
// 构造后不可修改，可在多个 goroutine 间共享。
type FieldLayout struct {
	kind   Kind
	size   int          // FixedBytes 的字节数
	elem   *FieldLayout // Option / Vec 的元素布局
	fields []Field      // Struct 的有序字段
}

// Field 结构体中的一个具名字段
type Field struct {
	Name   string
	Layout *FieldLayout
}

// F 构造具名字段
func F(name string, l *FieldLayout) Field {
	return Field{Name: name, Layout: l}
}

func U8() *FieldLayout { return &FieldLayout{kind: KindU8} }
func U16() *FieldLayout { return &FieldLayout{kind: KindU16} }
func U32() *FieldLayout { return &FieldLayout{kind: KindU32} }
func U64() *FieldLayout { return &FieldLayout{kind: KindU64} }
func Bool() *FieldLayout { return &FieldLayout{kind: KindBool} }
func String() *FieldLayout { return &FieldLayout{kind: KindString} }

// FixedBytes 定长字节，原样写入，不带长度前缀
func FixedBytes(n int) *FieldLayout {
	if n <= 0 {
		panic(fmt.Sprintf("layout: FixedBytes size must be positive, got %d", n))
	}
	return &FieldLayout{kind: KindFixedBytes, size: n}
}

// Option 1 字节存在标记（0/1），存在时紧跟元素值
func Option(elem *FieldLayout) *FieldLayout {
	if elem == nil {
		panic("layout: Option element is nil")
	}
	return &FieldLayout{kind: KindOption, elem: elem}
}

// Vec u32 小端长度前缀 + 元素序列
func Vec(elem *FieldLayout) *FieldLayout {
	if elem == nil {
		panic("layout: Vec element is nil")
	}
	return &FieldLayout{kind: KindVec, elem: elem}
}

// Struct 按声明顺序编码的字段序列，字段名不可重复
func Struct(fields ...Field) *FieldLayout {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Layout == nil {
			panic(fmt.Sprintf("layout: field %q has nil layout", f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("layout: duplicate field %q", f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &FieldLayout{kind: KindStruct, fields: cp}
}

// minSize 该布局编码后的最小字节数
func (l *FieldLayout) minSize() int {
	switch l.kind {
	case KindU8, KindBool, KindOption:
		return 1
	case KindU16:
		return 2
	case KindU32, KindString, KindVec:
		return 4
	case KindU64:
		return 8
	case KindFixedBytes:
		return l.size
	case KindStruct:
		n := 0
		for _, f := range l.fields {
			n += f.Layout.minSize()
		}
		return n
	}
	return 0
}

func (l *FieldLayout) Kind() Kind { return l.kind }
func (l *FieldLayout) Size() int { return l.size }
func (l *FieldLayout) Elem() *FieldLayout { return l.elem }

// Fields 返回字段列表的拷贝
func (l *FieldLayout) Fields() []Field {
	cp := make([]Field, len(l.fields))
	copy(cp, l.fields)
	return cp
}

// Field 按名称查找子字段
func (l *FieldLayout) Field(name string) (*FieldLayout, bool) {
	for _, f := range l.fields {
		if f.Name == name {
			return f.Layout, true
		}
	}
	return nil, false
}

func (l *FieldLayout) String() string {
	switch l.kind {
	case KindFixedBytes:
		return fmt.Sprintf("bytes[%d]", l.size)
	case KindOption, KindVec:
		return fmt.Sprintf("%s<%s>", l.kind, l.elem)
	case KindStruct:
		return fmt.Sprintf("struct{%d fields}", len(l.fields))
	default:
		return l.kind.String()
	}
}
