package gui

import (
	"bytes"
	"testing"

	"v2browse/internal/container"
	"v2browse/internal/session"
	"v2browse/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNode(t *testing.T) {
	name, child := splitNode("docs")
	assert.Equal(t, "docs", name)
	assert.Empty(t, child)

	name, child = splitNode("docs/a.txt")
	assert.Equal(t, "docs", name)
	assert.Equal(t, "a.txt", child)
}

func TestLabels(t *testing.T) {
	d := types.Entry{Name: "docs", Type: types.Directory, Contents: []types.Entry{{Name: "a", Type: types.File}}}
	assert.Equal(t, "docs/ (1)", entryLabel(d, true))
	assert.Equal(t, "docs/", entryLabel(d, false))
	assert.Equal(t, "a.txt", entryLabel(types.Entry{Name: "a.txt", Type: types.File}, true))

	assert.Equal(t, "x/docs/ (1)", containerLabel(container.NewEntry("x", d)))
	assert.Equal(t, "a.txt", containerLabel(container.NewEntry("", types.Entry{Name: "a.txt", Type: types.File})))
}

func TestPreviewText(t *testing.T) {
	title, body := previewText(session.State{})
	assert.Equal(t, "Preview", title)
	assert.Equal(t, "No file open", body)

	title, body = previewText(session.State{File: "a.txt", FileDir: "docs", LoadingFile: true})
	assert.Equal(t, "docs/a.txt", title)
	assert.Equal(t, "Loading…", body)

	_, body = previewText(session.State{File: "a.bin", Content: make([]byte, 1500), ContentType: "application/octet-stream", Binary: true})
	assert.Equal(t, "Binary file (application/octet-stream · 1.5 kB)", body)

	_, body = previewText(session.State{File: "a.txt", Content: []byte("hi")})
	assert.Equal(t, "hi", body)
}

func TestWriteExport(t *testing.T) {
	c := container.Container{container.NewEntry("docs", types.Entry{Name: "a.txt", Type: types.File})}

	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "picked.txt", c))
	assert.Equal(t, "docs/a.txt\n", buf.String())

	assert.Equal(t, container.FormatYAML, exportFormat("x.YML"))
	assert.Equal(t, container.FormatJSON, exportFormat("x"))
}
