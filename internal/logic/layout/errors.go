package layout

import (
	"errors"
	"fmt"
)

var (
	ErrEncoding       = errors.New("layout: encoding error")
	ErrLayoutMismatch = errors.New("layout: layout mismatch")
	ErrDecoding       = errors.New("layout: decoding error")
)

// EncodingError 字段值无法用声明的宽度/类型表示
type EncodingError struct {
	Path   string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error at %s: %s", displayPath(e.Path), e.Reason)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// LayoutMismatchError 定长字段给出的字节数不符
type LayoutMismatchError struct {
	Path string
	Want int
	Got  int
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("layout mismatch at %s: want %d bytes, got %d", displayPath(e.Path), e.Want, e.Got)
}

func (e *LayoutMismatchError) Is(target error) bool {
	return target == ErrLayoutMismatch
}

// DecodingError 字节流与布局不符
type DecodingError struct {
	Path   string
	Offset int
	Reason string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decoding error at %s (offset %d): %s", displayPath(e.Path), e.Offset, e.Reason)
}

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding
}

func displayPath(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}
