package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	enabled  []string
	disabled []string
	err      error
}

func (service *recordingService) EnableAutostart(appName, execPath string) error {
	service.enabled = append(service.enabled, appName+"="+execPath)
	return service.err
}

func (service *recordingService) DisableAutostart(appName string) error {
	service.disabled = append(service.disabled, appName)
	return service.err
}

func (service *recordingService) AutostartEnabled(string) (bool, error) {
	return len(service.enabled) > len(service.disabled), service.err
}

func TestSetAutostart(t *testing.T) {
	service := &recordingService{}

	require.NoError(t, SetAutostart(service, "PixelClock", true))
	require.Len(t, service.enabled, 1)
	assert.Contains(t, service.enabled[0], "PixelClock=")

	require.NoError(t, SetAutostart(service, "PixelClock", false))
	assert.Equal(t, []string{"PixelClock"}, service.disabled)
}

func TestSetAutostartPropagatesErrors(t *testing.T) {
	failure := errors.New("read-only home")
	service := &recordingService{err: failure}

	assert.ErrorIs(t, SetAutostart(service, "PixelClock", true), failure)
	assert.ErrorIs(t, SetAutostart(service, "PixelClock", false), failure)
}

func TestAutostartID(t *testing.T) {
	tests := []struct {
		name    string
		appName string
		want    string
	}{
		{name: "single word", appName: "PixelClock", want: "pixelclock"},
		{name: "spaces collapse", appName: "  Pixel   Clock ", want: "pixel-clock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := autostartID(tt.appName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := autostartID("   ")
	assert.ErrorIs(t, err, errEmptyAppName)
}
