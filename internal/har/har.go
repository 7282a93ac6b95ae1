// Package har models the HTTP Archive 1.2 capture format and decodes
// it into typed records. Only the fields the analysis pipeline needs
// are retained; everything else is dropped during decode so large
// captures do not pin their raw serialized form in memory.
package har

import "time"

type File struct {
	Log *Log `json:"log"`
}

type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	Pages   []Page  `json:"pages,omitempty"`
	Entries []Entry `json:"entries"`
}

type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Page struct {
	StartedDateTime time.Time   `json:"startedDateTime"`
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	PageTimings     PageTimings `json:"pageTimings"`
}

// PageTimings offsets are milliseconds from navigation start. The
// format uses null or -1 for "not recorded"; both decode to a nil or
// negative value here.
type PageTimings struct {
	OnContentLoad *float64 `json:"onContentLoad"`
	OnLoad        *float64 `json:"onLoad"`
}

type Entry struct {
	Pageref         string    `json:"pageref,omitempty"`
	StartedDateTime time.Time `json:"startedDateTime"`
	Time            float64   `json:"time"`
	Request         Request   `json:"request"`
	Response        Response  `json:"response"`
	Timings         Timings   `json:"timings"`
	ResourceType    string    `json:"_resourceType,omitempty"`
}

type Request struct {
	Method      string          `json:"method"`
	URL         string          `json:"url"`
	HTTPVersion string          `json:"httpVersion"`
	Headers     []NameValuePair `json:"headers"`
	HeadersSize int64           `json:"headersSize"`
	BodySize    int64           `json:"bodySize"`
}

type Response struct {
	Status      int             `json:"status"`
	StatusText  string          `json:"statusText"`
	HTTPVersion string          `json:"httpVersion"`
	Headers     []NameValuePair `json:"headers"`
	Content     Content         `json:"content"`
	RedirectURL string          `json:"redirectURL"`
	HeadersSize int64           `json:"headersSize"`
	BodySize    int64           `json:"bodySize"`
}

type Content struct {
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

type NameValuePair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Timings are per-phase durations in milliseconds. Optional phases are
// nil when absent and may carry -1 for "not applicable"; both mean the
// phase is unknown.
type Timings struct {
	Blocked *float64 `json:"blocked"`
	DNS     *float64 `json:"dns"`
	Connect *float64 `json:"connect"`
	SSL     *float64 `json:"ssl"`
	Send    *float64 `json:"send"`
	Wait    *float64 `json:"wait"`
	Receive *float64 `json:"receive"`
}
