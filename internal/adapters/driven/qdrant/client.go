package qdrant

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/qdrant/go-client/qdrant"
)

// defaultGRPCPort is Qdrant's gRPC port.
const defaultGRPCPort = 6334

// NewClient connects to a Qdrant instance. addr is "host", "host:port",
// or "https://host:port"; the https scheme enables TLS, as does a
// non-empty API key (cloud deployments reject keys over plaintext).
func NewClient(addr, apiKey string) (*qdrant.Client, error) {
	host, port, useTLS, err := parseAddr(addr)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		useTLS = true
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant at %s: %w", addr, err)
	}
	return client, nil
}

func parseAddr(addr string) (host string, port int, useTLS bool, err error) {
	switch {
	case strings.HasPrefix(addr, "https://"):
		addr = strings.TrimPrefix(addr, "https://")
		useTLS = true
	case strings.HasPrefix(addr, "http://"):
		addr = strings.TrimPrefix(addr, "http://")
	}
	addr = strings.TrimSuffix(addr, "/")
	if addr == "" {
		return "", 0, false, fmt.Errorf("empty qdrant address")
	}

	host, portStr, splitErr := net.SplitHostPort(addr)
	if splitErr != nil {
		return addr, defaultGRPCPort, useTLS, nil
	}
	port, err = strconv.Atoi(portStr)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid qdrant port %q", portStr)
	}
	return host, port, useTLS, nil
}
