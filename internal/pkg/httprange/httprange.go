// Package httprange parses the HTTP Range request header into a normalized
// byte interval. Only the single-range "bytes=start-end" form is supported;
// everything the proxy cannot understand degrades to full-content delivery.
package httprange

import (
	"regexp"
	"strconv"
)

var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// Range is a requested byte interval. End is nil when the request is
// open-ended ("bytes=100-"), meaning "to the end of the object".
type Range struct {
	Start int64
	End   *int64
}

// Parse returns the byte range requested by the header, or nil when no range
// was requested. Malformed headers are treated as "no range requested";
// the caller serves the full object instead of failing the request.
// Parse does not validate Start against the object size; only the storage
// backend knows the authoritative size.
func Parse(header string) *Range {
	if header == "" {
		return nil
	}

	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return nil
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}

	r := &Range{Start: start}
	if m[2] != "" {
		end, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil || end < start {
			return nil
		}
		r.End = &end
	}

	return r
}

// Header renders the range back into request-header form ("bytes=100-199"
// or "bytes=100-") for backends that take the raw header string.
func (r *Range) Header() string {
	if r.End != nil {
		return "bytes=" + strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(*r.End, 10)
	}
	return "bytes=" + strconv.FormatInt(r.Start, 10) + "-"
}
