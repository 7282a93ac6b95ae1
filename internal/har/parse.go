package har

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// FormatError reports a capture that is not valid HAR data. It is
// fatal: no partial result accompanies it.
type FormatError struct {
	Section string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid HAR capture: %s: %s", e.Section, e.Reason)
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// Decode reads a HAR capture from r. The raw serialized form is not
// retained; callers hold only the decoded records afterwards. A capture
// missing the log or entries sections fails with a FormatError, while a
// capture with an empty entries list decodes successfully.
func Decode(r io.Reader) (*File, error) {
	dec := json.NewDecoder(r)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, &FormatError{Section: "document", Reason: err.Error()}
	}
	if f.Log == nil {
		return nil, &FormatError{Section: "log", Reason: "missing top-level log object"}
	}
	if f.Log.Entries == nil {
		return nil, &FormatError{Section: "log.entries", Reason: "missing entries list"}
	}
	return &f, nil
}
