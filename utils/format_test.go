package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat_DecorateText(t *testing.T) {
	assert.Equal(t, ErrorColor+"failed"+DefaultColor, DecorateText("failed", ErrorMessage))
	assert.Equal(t, SuccessColor+"done"+DefaultColor, DecorateText("done", SuccessMessage))
	assert.Equal(t, "plain", DecorateText("plain", MessageType(42)))
}

func TestFormat_FormatTime(t *testing.T) {
	testCases := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{2*time.Minute + 3*time.Second, "2m 3.00s"},
		{time.Hour + 5*time.Minute + 30*time.Second, "1h 5m 30.00s"},
		{26*time.Hour + time.Minute, "1d 2h 1m 0.00s"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatTime(tc.d))
		})
	}
}
