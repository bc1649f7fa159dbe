package gui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"v2browse/internal/container"
	"v2browse/internal/session"
	"v2browse/pkg/types"

	"github.com/dustin/go-humanize"
)

// splitNode splits a tree node ID into the top-level name and, for inline
// children, the child name.
func splitNode(uid string) (name, child string) {
	if i := strings.Index(uid, "/"); i >= 0 {
		return uid[:i], uid[i+1:]
	}
	return uid, ""
}

// entryLabel renders a listing row. Top-level directories show how many
// children they carry.
func entryLabel(e types.Entry, top bool) string {
	if !e.IsDir() {
		return e.Name
	}
	if top && len(e.Contents) > 0 {
		return fmt.Sprintf("%s/ (%d)", e.Name, len(e.Contents))
	}
	return e.Name + "/"
}

func containerLabel(e container.Entry) string {
	if e.IsDir() {
		return fmt.Sprintf("%s/ (%d)", e.Key(), len(e.Contents))
	}
	return e.Key()
}

// previewText returns the preview title and body for the open file.
func previewText(st session.State) (string, string) {
	if st.File == "" {
		return "Preview", "No file open"
	}
	title := types.JoinPath(st.FileDir, st.File)
	switch {
	case st.LoadingFile:
		return title, "Loading…"
	case st.Content == nil:
		return "Preview", "No file open"
	case st.Binary:
		return title, fmt.Sprintf("Binary file (%s · %s)", st.ContentType, humanize.Bytes(uint64(len(st.Content))))
	}
	return title, string(st.Content)
}

func statusText(st session.State, containerLen int) string {
	return fmt.Sprintf("%d entries · %d selected · %d in container",
		len(st.Listing), len(st.Selected), containerLen)
}

func decodeContainer(data []byte) (container.Container, error) {
	return container.Decode(data)
}

// exportFormat picks the export format from a file name: .yaml/.yml, .txt
// for paths, JSON otherwise.
func exportFormat(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return container.FormatYAML
	case ".txt":
		return container.FormatPaths
	}
	return container.FormatJSON
}

// writeExport writes c to w in the format matching name.
func writeExport(w io.Writer, name string, c container.Container) error {
	data, err := container.Export(c, exportFormat(name))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
