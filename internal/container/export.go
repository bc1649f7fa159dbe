package container

import (
	"encoding/json"
	"fmt"
	"strings"

	"v2browse/pkg/types"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatPaths = "paths"
)

// ExportFormats lists the formats Export accepts.
func ExportFormats() []string {
	return []string{FormatJSON, FormatYAML, FormatPaths}
}

// Export renders c for use outside the browser. The paths format prints
// one full path per line; directories end in "/" and are followed by the
// children they carry.
func Export(c Container, format string) ([]byte, error) {
	if c == nil {
		c = Container{}
	}
	switch strings.ToLower(format) {
	case FormatJSON, "":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		return yaml.Marshal(c)
	case FormatPaths:
		var b strings.Builder
		for _, e := range c {
			if !e.IsDir() {
				b.WriteString(e.FullPath() + "\n")
				continue
			}
			b.WriteString(e.FullPath() + "/\n")
			for _, child := range e.Contents {
				p := types.JoinPath(e.FullPath(), child.Name)
				if child.IsDir() {
					p += "/"
				}
				b.WriteString(p + "\n")
			}
		}
		return []byte(b.String()), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}
