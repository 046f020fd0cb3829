// Package serialenv implements envcap.Sender on top of go.bug.st/serial, and
// exposes the enumerator-backed port listing the CLI demo uses to let an
// operator pick a device.
package serialenv

import (
	"fmt"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Config mirrors the handful of serial parameters this driver cares about.
type Config struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
	Timeout  time.Duration
}

// DefaultConfig returns 8N1 at 9600 baud, the common GNSS module default
// before any baud-handshake sentence has been sent.
func DefaultConfig() Config {
	return Config{
		BaudRate: 9600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
		Timeout:  500 * time.Millisecond,
	}
}

// Port implements envcap.Sender by writing synchronously and invoking done
// inline; go.bug.st/serial's Write already blocks only for the duration of
// the OS write call, short enough that the core's single-threaded model
// tolerates it for demo purposes.
type Port struct {
	port   serial.Port
	config Config
}

// Open opens portName with config, or DefaultConfig's settings when config
// is the zero value's BaudRate of 0.
func Open(portName string, config Config) (*Port, error) {
	if config.BaudRate == 0 {
		config = DefaultConfig()
	}
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
		Parity:   config.Parity,
		StopBits: config.StopBits,
	}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", portName, err)
	}
	if err := p.SetReadTimeout(config.Timeout); err != nil {
		return nil, fmt.Errorf("setting read timeout: %w", err)
	}
	return &Port{port: p, config: config}, nil
}

// Send implements envcap.Sender.
func (p *Port) Send(frame []byte, done func(error)) {
	_, err := p.port.Write(frame)
	if done != nil {
		done(err)
	}
}

// Read reads into buffer, blocking up to the configured timeout.
func (p *Port) Read(buffer []byte) (int, error) {
	return p.port.Read(buffer)
}

// Rebaud closes and reopens the port at a new baud rate, the only way
// go.bug.st/serial exposes a baud change mid-session.
func (p *Port) Rebaud(portName string, baudRate int) error {
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("closing port before rebaud: %w", err)
	}
	p.config.BaudRate = baudRate
	reopened, err := Open(portName, p.config)
	if err != nil {
		return err
	}
	p.port = reopened.port
	return nil
}

// Close closes the underlying port.
func (p *Port) Close() error {
	return p.port.Close()
}

// ListPorts returns the names of every serial port the OS currently reports.
func ListPorts() ([]string, error) {
	details, err := PortDetails()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(details))
	for _, d := range details {
		names = append(names, d.Name)
	}
	return names, nil
}

// PortDetails returns the enumerator's full per-port metadata (VID/PID,
// USB product string), used by the CLI demo to help identify a GNSS module
// among several serial devices.
func PortDetails() ([]*enumerator.PortDetails, error) {
	return enumerator.GetDetailedPortsList()
}
