package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const wakeMessage = "wake\n"

// InstanceGuard holds the single-instance lock. A second instance can ask
// the holder to bring its window forward with WakeRunningInstance.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireSingleInstance attempts to bind a deterministic localhost port.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Serve calls onWake for every wake request until the guard is released.
func (guard *InstanceGuard) Serve(onWake func()) {
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		buffer := make([]byte, len(wakeMessage))
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		count, _ := conn.Read(buffer)
		_ = conn.Close()
		if string(buffer[:count]) == wakeMessage && onWake != nil {
			onWake()
		}
	}
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

// WakeRunningInstance asks the instance holding the lock to show itself.
func WakeRunningInstance(appName string) error {
	conn, err := net.DialTimeout("tcp", instanceAddress(appName), time.Second)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(wakeMessage)); err != nil {
		return fmt.Errorf("send wake request: %w", err)
	}
	return nil
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
