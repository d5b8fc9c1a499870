package station

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeZone(t *testing.T) {
	tests := []struct {
		code   string
		want   string
		wantOK bool
	}{
		{"NYP", "America/New_York", true},
		{"WAS", "America/New_York", true},
		{"SEA", "America/Los_Angeles", true},
		{"CHI", "America/Chicago", true},
		{"VAC", "America/Vancouver", true},
		{"mtr", "America/Toronto", true},
		{"ZZZ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := TimeZone(tt.code)
		assert.Equal(t, tt.wantOK, ok, tt.code)
		assert.Equal(t, tt.want, got, tt.code)
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, "America/Los_Angeles", Location("SEA").String())
	assert.Equal(t, "UTC", Location("???").String())
}
