package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	firstInstancePort = 20000
	lastInstancePort  = 39999
	activateTimeout   = time.Second
)

// InstanceGuard is a loopback listener owned by the running instance. Later
// launches connect to it to bring the running instance forward.
type InstanceGuard struct {
	listener net.Listener
}

// AcquireSingleInstance claims the loopback port derived from appName.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAlreadyRunning, address, err)
	}
	return &InstanceGuard{listener: listener}, nil
}

// Serve calls activate for each later launch until the guard is released.
func (guard *InstanceGuard) Serve(activate func()) {
	if guard == nil || guard.listener == nil {
		return
	}
	go func() {
		for {
			conn, err := guard.listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
			if activate != nil {
				activate()
			}
		}
	}()
}

// Release frees the port.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

// Activate asks the running instance of appName to show itself.
func Activate(appName string) error {
	conn, err := net.DialTimeout("tcp", instanceAddress(appName), activateTimeout)
	if err != nil {
		return fmt.Errorf("activate running instance: %w", err)
	}
	return conn.Close()
}

func instanceAddress(appName string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(strings.ToLower(strings.TrimSpace(appName))))
	span := uint32(lastInstancePort - firstInstancePort + 1)
	port := firstInstancePort + int(hash.Sum32()%span)
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}
