// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package pcinterface talks to the boiler controller's PC interface: it
// sends the status query over a serial or WebSocket link, collects the
// 32-byte reply and hands it to the intergas decoder.
package pcinterface

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
)

// Link parameters of the PC interface
const (
	DefaultBaudRate = 9600
	DefaultTimeout  = 2 * time.Second
)

// QueryCommand requests one status frame ("S?\r")
var QueryCommand = []byte{0x53, 0x3F, 0x0D}

// ErrLinkClosed is returned by Read and Write after Close
var ErrLinkClosed = errors.New("link closed")

// Link carries bytes to and from the controller.
// Read returns (0, nil) when the link's read timeout expires with no data.
type Link interface {
	io.Reader
	io.Writer
	io.Closer
}

// SerialLink wraps a serial port configured 8N1
type SerialLink struct {
	port serial.Port
}

// OpenSerial opens a serial port with the given baud rate and read timeout
func OpenSerial(portName string, baudRate int, timeout time.Duration) (*SerialLink, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}

	return &SerialLink{port: port}, nil
}

func (s *SerialLink) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *SerialLink) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *SerialLink) Close() error {
	return s.port.Close()
}

// ResetInputBuffer drops bytes left over from an earlier, abandoned reply
func (s *SerialLink) ResetInputBuffer() error {
	return s.port.ResetInputBuffer()
}

// WebSocketLink carries the serial byte stream over binary WebSocket
// messages. A background pump owns the connection's read side so a read
// timeout never poisons the connection.
type WebSocketLink struct {
	conn    *websocket.Conn
	timeout time.Duration

	messages chan []byte
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	buf     []byte
	readErr error
}

// OpenWebSocket dials a ws:// or wss:// byte bridge with optional HTTP Basic auth
func OpenWebSocket(wsURL, username, password string, skipSSLVerify bool, timeout time.Duration) (*WebSocketLink, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}

	return NewWebSocketLink(conn, timeout), nil
}

// NewWebSocketLink wraps an established connection
func NewWebSocketLink(conn *websocket.Conn, timeout time.Duration) *WebSocketLink {
	w := &WebSocketLink{
		conn:     conn,
		timeout:  timeout,
		messages: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
	go w.pump()
	return w
}

func (w *WebSocketLink) pump() {
	defer close(w.messages)
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.mu.Lock()
			w.readErr = err
			w.mu.Unlock()
			return
		}

		// Text frames are bridge chatter, not controller bytes
		if messageType != websocket.BinaryMessage {
			continue
		}

		select {
		case w.messages <- data:
		case <-w.done:
			return
		}
	}
}

func (w *WebSocketLink) Read(p []byte) (int, error) {
	w.mu.Lock()
	if len(w.buf) > 0 {
		n := copy(p, w.buf)
		w.buf = w.buf[n:]
		w.mu.Unlock()
		return n, nil
	}
	w.mu.Unlock()

	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	select {
	case data, ok := <-w.messages:
		if !ok {
			w.mu.Lock()
			err := w.readErr
			w.mu.Unlock()
			if err == nil {
				err = ErrLinkClosed
			}
			return 0, err
		}
		n := copy(p, data)
		if n < len(data) {
			w.mu.Lock()
			w.buf = append(w.buf, data[n:]...)
			w.mu.Unlock()
		}
		return n, nil
	case <-timer.C:
		return 0, nil
	case <-w.done:
		return 0, ErrLinkClosed
	}
}

// ResetInputBuffer discards buffered bytes and any messages already
// received, so the tail of an earlier reply cannot prefix the next frame
func (w *WebSocketLink) ResetInputBuffer() error {
	w.mu.Lock()
	w.buf = nil
	w.mu.Unlock()

	for {
		select {
		case _, ok := <-w.messages:
			if !ok {
				return nil
			}
		default:
			return nil
		}
	}
}

func (w *WebSocketLink) Write(p []byte) (int, error) {
	select {
	case <-w.done:
		return 0, ErrLinkClosed
	default:
	}
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *WebSocketLink) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.conn.Close()
	})
	return err
}
