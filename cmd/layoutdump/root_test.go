package main

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const simpleDocument = `<!DOCTYPE html><body style="margin:0;font-size:10px;line-height:20px">` +
	`<div id="a" style="height:50px"></div><div id="b">hi</div></body>`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the command and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDumpText(t *testing.T) {
	path := writeFixture(t, "simple.html", simpleDocument)
	out, err := execute(t, "--width", "400", "--height", "300", path)
	require.NoError(t, err)

	assert.Equal(t, "# "+path+"\n"+
		"View (0, 0, 400, 300)\n"+
		"  Block html (0, 0, 400, 70)\n"+
		"    Block body (0, 0, 400, 70)\n"+
		"      Block div#a (0, 0, 400, 50)\n"+
		"      Block div#b (0, 50, 400, 20) lines=1\n"+
		"        Text anonymous (0, 50, 10, 20) \"hi\"\n"+
		"pages: 1\n", out)
}

func TestDumpJSON(t *testing.T) {
	path := writeFixture(t, "simple.html", simpleDocument)
	out, err := execute(t, "--format", "json", "--width", "400", "--page-height", "60", path)
	require.NoError(t, err)

	var doc documentJSON
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, path, doc.File)
	assert.False(t, doc.Quirks)
	// the root is not stretched to the viewport when printing
	assert.Equal(t, rectJSON{0, 0, 400, 80}, doc.Root.Rect)
	assert.Equal(t, []pageJSON{{0, 60}, {60, 60}}, doc.Pages)
	// the first line of b is 10px short on the first page
	assert.Equal(t, []shortageJSON{{Box: "Block div#b", Offset: 0, Amount: 10}}, doc.Shortages)

	body := doc.Root.Children[0].Children[0]
	assert.Equal(t, "body", body.Tag)
	require.Len(t, body.Children, 2)
	b := body.Children[1]
	assert.Equal(t, "b", b.ID)
	// the first line straddles the page boundary: the block moves with it
	assert.Equal(t, rectJSON{0, 60, 400, 20}, b.Rect)
	assert.Equal(t, []lineJSON{{0, 20, 13, 1}}, b.Lines)
	assert.Equal(t, "hi", b.Children[0].Text)
}

func TestDumpSeveralFiles(t *testing.T) {
	first := writeFixture(t, "first.html", simpleDocument)
	second := writeFixture(t, "second.html", `<html><body><p>quirky</p></body></html>`)
	out, err := execute(t, "--format", "json", first, second, first)
	require.NoError(t, err)

	// one document per file, in the order of the arguments
	dec := json.NewDecoder(strings.NewReader(out))
	var files []string
	var quirks []bool
	for dec.More() {
		var doc documentJSON
		require.NoError(t, dec.Decode(&doc))
		files = append(files, doc.File)
		quirks = append(quirks, doc.Quirks)
	}
	assert.Equal(t, []string{first, second, first}, files)
	assert.Equal(t, []bool{false, true, false}, quirks)
}

func TestDumpShortages(t *testing.T) {
	path := writeFixture(t, "pages.html", `<!DOCTYPE html><body style="margin:0">`+
		`<div style="height:50px"></div><img id="i" style="display:block" width=80 height=80></body>`)
	out, err := execute(t, "--page-height", "100", path)
	require.NoError(t, err)
	assert.Contains(t, out, "shortage: Replaced img#i at 50, missing 30\n")
	assert.Contains(t, out, "      Replaced img#i (0, 100, 80, 80)\n")
	assert.True(t, strings.HasSuffix(out, "pages: 2\n"))
}

func TestConfigSources(t *testing.T) {
	path := writeFixture(t, "simple.html", simpleDocument)

	// environment
	t.Setenv("LAYOUTDUMP_WIDTH", "500")
	out, err := execute(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "View (0, 0, 500, 600)\n")

	// config file, the environment still wins
	config := writeFixture(t, "layoutdump.yaml", "width: 300\nheight: 200\npage-height: 0\n")
	out, err = execute(t, "--config", config, path)
	require.NoError(t, err)
	assert.Contains(t, out, "View (0, 0, 500, 200)\n")

	// flags win over everything
	out, err = execute(t, "-c", config, "--width", "250", path)
	require.NoError(t, err)
	assert.Contains(t, out, "View (0, 0, 250, 200)\n")
}

func TestInvalidInvocations(t *testing.T) {
	path := writeFixture(t, "simple.html", simpleDocument)

	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "--format", "xml", path)
	assert.ErrorContains(t, err, `unknown format "xml"`)

	_, err = execute(t, "--width", "0", path)
	assert.ErrorContains(t, err, "invalid viewport")

	_, err = execute(t, "--column-rebalances=-1", path)
	assert.ErrorContains(t, err, "invalid column rebalances")

	missing := filepath.Join(t.TempDir(), "missing.html")
	_, err = execute(t, path, missing)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorContains(t, err, missing)

	broken := writeFixture(t, "broken.yaml", "width: [")
	_, err = execute(t, "--config", broken, path)
	assert.ErrorContains(t, err, "reading config file")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "layoutdump "))
}
