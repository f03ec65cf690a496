package fastpath

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func init() {
	register("check-xml", Check{
		SupportsArgs: func(args []string) bool { return len(args) == 0 },
		Run: func(ctx context.Context, root string, files []string, _ []string) (int, []byte, error) {
			code, out := RunConcurrentFileChecks(ctx, root, files, checkXML)
			return code, out, nil
		},
	})
}

func checkXML(root, relPath string) (int, []byte) {
	path := filepath.Join(root, relPath)
	f, err := os.Open(path) // #nosec G304 -- path comes from the enumerated file set
	if err != nil {
		return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
	}
	defer f.Close() //nolint:errcheck

	dec := xml.NewDecoder(f)
	roots := 0
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 1, []byte(fmt.Sprintf("%s: %v\n", relPath, err))
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return 1, []byte(fmt.Sprintf("%s: document has more than one root element\n", relPath))
				}
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if roots == 0 {
		return 1, []byte(fmt.Sprintf("%s: document has no root element\n", relPath))
	}
	return 0, nil
}
