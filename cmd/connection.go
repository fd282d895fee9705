// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Thermoquad/intergastat/pkg/config"
	"github.com/Thermoquad/intergastat/pkg/pcinterface"
)

const (
	pcTimeoutDefault    = pcinterface.DefaultTimeout
	pollIntervalDefault = 10 * time.Second
)

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	if pw := os.Getenv("INTERGAS_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal, read a line instead
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// OpenLink opens the simulated, WebSocket or serial link selected by c
func OpenLink(c config.Config) (pcinterface.Link, string, error) {
	if c.Simulate {
		sim := pcinterface.NewSimulator(time.Now().UnixNano(), true)
		return pcinterface.NewSimulatedLink(sim), "Simulated boiler", nil
	}

	if c.WebSocket.URL != "" {
		password := ""
		if c.WebSocket.Username != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, "", err
			}
		}

		link, err := pcinterface.OpenWebSocket(c.WebSocket.URL, c.WebSocket.Username, password,
			c.WebSocket.NoSSLVerify, c.Serial.Timeout)
		if err != nil {
			return nil, "", err
		}
		return link, fmt.Sprintf("WebSocket: %s", c.WebSocket.URL), nil
	}

	if c.Serial.Port != "" {
		link, err := pcinterface.OpenSerial(c.Serial.Port, c.Serial.Baud, c.Serial.Timeout)
		if err != nil {
			return nil, "", err
		}
		return link, fmt.Sprintf("Serial: %s @ %d baud", c.Serial.Port, c.Serial.Baud), nil
	}

	return nil, "", fmt.Errorf("either --port, --url or --simulate must be specified")
}

// OpenClient opens the configured link and wraps it in a query client
func OpenClient() (*pcinterface.Client, string, error) {
	link, info, err := OpenLink(cfg)
	if err != nil {
		return nil, "", err
	}
	return pcinterface.NewClient(link, cfg.Serial.Timeout), info, nil
}

// signalContext is cancelled on Ctrl+C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// sleepContext waits for d or until ctx is done, reporting whether the
// full delay elapsed
func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
