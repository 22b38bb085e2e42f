package utils

import (
	"fmt"
	"os"
	"runtime/debug"
)

// GoSafe runs fn in a goroutine and turns a panic into a stderr trace
// instead of taking the whole process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}
