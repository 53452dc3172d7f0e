package version

import (
	"fmt"
)

const (
	Version = "0.3.0"
)

// Used in the output of the command line tools
var VersionString = fmt.Sprintf("layoutdump %s", Version)
