package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	errEmptyAppName  = errors.New("app name is empty")
	errEmptyExecPath = errors.New("exec path is empty")
)

// Service registers the application to launch at login.
type Service interface {
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns the implementation for the running OS.
func NewService() Service {
	return &platformService{}
}

// SetAutostart registers the running executable or removes the entry.
func SetAutostart(service Service, appName string, enabled bool) error {
	if !enabled {
		return service.DisableAutostart(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("enable autostart: resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}

// autostartID turns appName into a lowercase, dash-separated identifier
// usable in file names and launchd labels.
func autostartID(appName string) (string, error) {
	fields := strings.Fields(strings.ToLower(appName))
	if len(fields) == 0 {
		return "", errEmptyAppName
	}
	return strings.Join(fields, "-"), nil
}
