//go:build layoutdebug

package layout

import "fmt"

func assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic("layout assertion failed: " + fmt.Sprintf(format, args...))
	}
}
