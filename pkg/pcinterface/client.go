// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pcinterface

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Thermoquad/intergastat/pkg/intergas"
)

// ErrShortRead matches any ShortReadError via errors.Is
var ErrShortRead = errors.New("short read")

// ShortReadError is returned when the link went quiet before a full frame arrived
type ShortReadError struct {
	Received int
}

// Error implements the error interface
func (e *ShortReadError) Error() string {
	return fmt.Sprintf("short read: received %d of %d bytes", e.Received, intergas.FrameSize)
}

// Is reports whether target is ErrShortRead
func (e *ShortReadError) Is(target error) bool {
	return target == ErrShortRead
}

type inputResetter interface {
	ResetInputBuffer() error
}

// Client issues status queries over a Link
type Client struct {
	link    Link
	timeout time.Duration
}

// NewClient returns a client that waits at most timeout for each reply
func NewClient(link Link, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{link: link, timeout: timeout}
}

// Close closes the underlying link
func (c *Client) Close() error {
	return c.link.Close()
}

// Query sends one status query and collects the reply.
//
// On a short reply the bytes received so far are returned together with a
// *ShortReadError, so callers can still inspect or decode them.
func (c *Client) Query(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r, ok := c.link.(inputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			return nil, fmt.Errorf("failed to reset input buffer: %w", err)
		}
	}

	if _, err := c.link.Write(QueryCommand); err != nil {
		return nil, fmt.Errorf("failed to write query: %w", err)
	}

	deadline := time.Now().Add(c.timeout)
	frame := make([]byte, 0, intergas.FrameSize)
	buf := make([]byte, intergas.FrameSize)

	for len(frame) < intergas.FrameSize {
		if err := ctx.Err(); err != nil {
			return frame, err
		}
		if time.Now().After(deadline) {
			break
		}

		n, err := c.link.Read(buf[:intergas.FrameSize-len(frame)])
		frame = append(frame, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return frame, fmt.Errorf("failed to read reply: %w", err)
		}

		// Link read timeout
		if n == 0 {
			break
		}
	}

	if len(frame) < intergas.FrameSize {
		return frame, &ShortReadError{Received: len(frame)}
	}
	return frame, nil
}

// Read queries the controller and decodes the reply.
// The raw frame is returned alongside so callers can log it.
func (c *Client) Read(ctx context.Context) (intergas.Telemetry, []byte, error) {
	frame, err := c.Query(ctx)
	if err != nil {
		if errors.Is(err, ErrShortRead) {
			// Let the decoder classify the partial frame too
			_, decodeErr := intergas.DecodeFrame(frame)
			return intergas.Telemetry{}, frame, fmt.Errorf("%w: %w", err, decodeErr)
		}
		return intergas.Telemetry{}, frame, err
	}

	t, err := intergas.DecodeFrame(frame)
	if err != nil {
		return intergas.Telemetry{}, frame, err
	}
	return t, frame, nil
}
