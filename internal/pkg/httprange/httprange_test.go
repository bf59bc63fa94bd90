package httprange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_FullRange(t *testing.T) {
	r := Parse("bytes=100-199")

	assert.NotNil(t, r)
	assert.Equal(t, int64(100), r.Start)
	assert.NotNil(t, r.End)
	assert.Equal(t, int64(199), *r.End)
}

func TestParse_OpenEnded(t *testing.T) {
	r := Parse("bytes=500-")

	assert.NotNil(t, r)
	assert.Equal(t, int64(500), r.Start)
	assert.Nil(t, r.End)
}

func TestParse_FromZero(t *testing.T) {
	r := Parse("bytes=0-0")

	assert.NotNil(t, r)
	assert.Equal(t, int64(0), r.Start)
	assert.Equal(t, int64(0), *r.End)
}

func TestParse_Absent(t *testing.T) {
	assert.Nil(t, Parse(""))
}

func TestParse_MalformedDegradesToNoRange(t *testing.T) {
	// Malformed headers must never fail the request; the proxy serves
	// the full object instead.
	cases := []string{
		"bytes=-500",        // suffix ranges not supported
		"bytes=abc-def",
		"bytes=100-199,300", // multi-range not supported
		"items=0-10",
		"bytes=",
		"100-199",
		"bytes=200-100", // end before start
	}

	for _, h := range cases {
		assert.Nil(t, Parse(h), "header %q should parse as no range", h)
	}
}

func TestHeader_RoundTrip(t *testing.T) {
	assert.Equal(t, "bytes=100-199", Parse("bytes=100-199").Header())
	assert.Equal(t, "bytes=500-", Parse("bytes=500-").Header())
}
