package enterprise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Uber Eats", "uber-eats"},
		{"  Weazel News  ", "weazel-news"},
		{"Bahama Mamas!", "bahama-mamas"},
		{"LTD Gas & Oil", "ltd-gas-oil"},
		{"---", ""},
		{"Taxi", "taxi"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
