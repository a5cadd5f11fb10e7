package diag

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Caller describes a call site as "pkg.Func (file.go:42)". skip counts
// frames above the caller of Caller itself: 0 describes that immediate
// caller, 1 its caller, and so on. Unresolvable frames come back as
// "unknown" rather than an error; attribution is diagnostic, never
// load-bearing.
func Caller(skip int) string {
	var pc [1]uintptr
	// 2 skips runtime.Callers and Caller itself.
	if n := runtime.Callers(2+skip, pc[:]); n == 0 {
		return "unknown"
	}
	frames := runtime.CallersFrames(pc[:])
	frame, _ := frames.Next()
	if frame.Function == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s:%d)", shortFunc(frame.Function), filepath.Base(frame.File), frame.Line)
}

// shortFunc trims the import path prefix from a fully qualified function
// name: "github.com/acme/app/render.Page" becomes "render.Page".
func shortFunc(fn string) string {
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
