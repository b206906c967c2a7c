package config

import (
	"fmt"
	"strings"
)

const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
	TransportStdio          = "stdio"
)

func NormalizeTransport(raw string) (string, error) {
	transport := strings.ToLower(strings.TrimSpace(raw))
	if transport == "" {
		transport = TransportStreamableHTTP
	}
	switch transport {
	case TransportStreamableHTTP, TransportSSE, TransportStdio:
		return transport, nil
	case "http":
		return TransportSSE, nil
	default:
		return "", fmt.Errorf(
			"invalid transport %q (expected %s|%s|%s|http)",
			raw,
			TransportStreamableHTTP,
			TransportSSE,
			TransportStdio,
		)
	}
}
