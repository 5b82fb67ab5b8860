package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeName(t *testing.T) {
	cases := map[string]string{
		"A":        "a",
		"Loss":     "loss",
		"NumSteps": "num_steps",
		"ModelURI": "model_uri",
		"URIList":  "uri_list",
		"Data2":    "data2",
	}
	for in, want := range cases {
		assert.Equal(t, want, SnakeName(in), in)
	}
}

func TestPtrOf(t *testing.T) {
	p := PtrOf(0.32)
	assert.Equal(t, 0.32, *p)
}
