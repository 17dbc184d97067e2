package utils

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInterval(t *testing.T) {
	for _, interval := range []string{"Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year"} {
		assert.True(t, IsValidInterval(interval), interval)
	}
	for _, interval := range []string{"", "day", "Decade", "Day; DROP TABLE x"} {
		assert.False(t, IsValidInterval(interval), interval)
	}
}

func TestSetupLoggingWritesFile(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "api.log")
	closer := SetupLogging(path)

	log.Println("conversion saved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "conversion saved")
}
