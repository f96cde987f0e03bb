package main

import (
	"runtime/debug"

	"github.com/zeromicro/go-zero/core/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	Execute()
}
