//go:build !layoutdebug

package layout

import (
	"fmt"
	"sync"

	"github.com/ariya/phantomjs-sub051/logger"
)

var reportedAssertions sync.Map

// assert reports a broken layout invariant. Release builds log each
// distinct failure once and carry on; build with -tags layoutdebug to
// panic instead.
func assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if _, seen := reportedAssertions.LoadOrStore(msg, true); !seen {
		logger.WarningLogger.Warnf("layout assertion failed: %s", msg)
	}
}
