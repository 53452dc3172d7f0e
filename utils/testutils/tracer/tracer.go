// Package tracer provides a function to dump the current layout tree,
// which may be used in debug mode.
package tracer

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	"github.com/ariya/phantomjs-sub051/html/boxes"
	"github.com/ariya/phantomjs-sub051/utils"
)

type Tracer struct {
	out *os.File
}

// NewTracer panics if an error occurs.
func NewTracer(outFile string) Tracer {
	f, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}

	return Tracer{out: f}
}

func FormatFloat(v pr.Float) string {
	return strconv.FormatFloat(float64(utils.RoundPrec(float32(v), 2)), 'g', -1, 32)
}

func (t Tracer) Dump(line string) {
	fmt.Fprintln(t.out, line)
}

// DumpTree writes the logical geometry of the subtree rooted at [root].
func (t Tracer) DumpTree(tree *boxes.Tree, root boxes.BoxIndex, context string) {
	fmt.Fprintln(t.out, context)

	var printer func(i boxes.BoxIndex, indent int)
	printer = func(i boxes.BoxIndex, indent int) {
		box := tree.Box(i)
		fmt.Fprint(t.out, strings.Repeat(" ", indent))
		fmt.Fprintf(t.out, "%s: %s %s %s %s\n", box,
			FormatFloat(box.LogicalLeft),
			FormatFloat(box.LogicalTop),
			FormatFloat(box.LogicalWidth),
			FormatFloat(box.LogicalHeight),
		)
		if box.IsText() {
			fmt.Fprintln(t.out, string(box.Text))
		}

		for _, child := range tree.Children(i) {
			printer(child, indent+1)
		}
	}
	printer(root, 0)
}
