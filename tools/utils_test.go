package tools

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAccountEnabled(t *testing.T) {
	tests := []struct {
		uac  string
		want bool
	}{
		{"512", true},
		{"514", false},
		{"66048", true},  // NORMAL_ACCOUNT | DONT_EXPIRE_PASSWORD
		{"66050", false}, // ... | ACCOUNTDISABLE
		{"", true},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.uac, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAccountEnabled(tt.uac))
		})
	}
}

func TestDisableUAC(t *testing.T) {
	assert.Equal(t, 514, DisableUAC(512))
	assert.Equal(t, 514, DisableUAC(514))
}

func TestDecodeUserAccountControlFlags(t *testing.T) {
	assert.Equal(t, []string{"ACCOUNTDISABLE", "NORMAL_ACCOUNT", "DONT_EXPIRE_PASSWORD"}, DecodeUserAccountControlFlags("66050"))
	assert.Equal(t, []string{"invalid"}, DecodeUserAccountControlFlags("x"))
	assert.Nil(t, DecodeUserAccountControlFlags("0"))
}

func TestFormatGUID(t *testing.T) {
	assert.Equal(t, "", FormatGUID([]byte{1, 2, 3}))
	assert.Equal(t, "00000000-0000-0000-0000-000000000000", FormatGUID(make([]byte, 16)))
}

func TestFileTime(t *testing.T) {
	ts := time.Date(2026, 10, 17, 12, 30, 0, 0, time.UTC)

	got, ok := FileTimeToTime(formatFileTime(TimeToFileTime(ts)))
	require.True(t, ok)
	assert.True(t, got.Equal(ts))

	epoch, ok := FileTimeToTime("116444736000000000")
	require.True(t, ok)
	assert.Equal(t, int64(0), epoch.Unix())

	for _, never := range []string{"", "0", "9223372036854775807", "abc"} {
		_, ok := FileTimeToTime(never)
		assert.False(t, ok, never)
	}
}

func formatFileTime(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "human-resources", Slugify("Human Resources"))
	assert.Equal(t, "disable-terminated", Slugify("  Disable_Terminated!! "))
	assert.Equal(t, "a-b", Slugify("a -- b"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ;; b ;", ";"))
	assert.Nil(t, SplitList("", ";"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("chatty"))
}

func TestStartTranscript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2026, 10, 17, 8, 5, 9, 0, time.UTC)

	path, closeFn, err := StartTranscript(dir, "Disable Terminated", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "disable-terminated-20261017-080509.log"), path)

	Log.Info("hello transcript")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello transcript")
}
