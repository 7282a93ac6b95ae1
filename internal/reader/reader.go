package reader

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/harsight/harsight/internal/har"
)

// Read opens and decodes one HAR capture. Decode errors come back as
// har.FormatError; anything else is an I/O problem.
func Read(path string) (*har.File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer file.Close()

	f, err := har.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"entries": len(f.Log.Entries),
		"pages":   len(f.Log.Pages),
	}).Debug("decoded HAR capture")

	return f, nil
}
