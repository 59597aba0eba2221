package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextNumber(t *testing.T) {
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		last string
		want string
	}{
		{name: "first offer", last: "", want: "TKF-202503-001"},
		{name: "continues counter", last: "TKF-202503-006", want: "TKF-202503-007"},
		{name: "counter crosses month boundary", last: "TKF-202501-007", want: "TKF-202503-008"},
		{name: "pads to three digits", last: "TKF-202503-099", want: "TKF-202503-100"},
		{name: "grows past three digits", last: "TKF-202503-999", want: "TKF-202503-1000"},
		{name: "reset on missing segment", last: "TKF-202503", want: "TKF-202503-001"},
		{name: "reset on extra segment", last: "TKF-2025-03-001", want: "TKF-202503-001"},
		{name: "reset on non-numeric counter", last: "TKF-202503-ABC", want: "TKF-202503-001"},
		{name: "foreign prefix still parseable", last: "OLD-202212-041", want: "TKF-202503-042"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextNumber(tc.last, now))
		})
	}
}
