package model

import (
	"context"
	"net"
)

// SecurityLayer abstracts how the listener socket is opened: plain TCP
// for proxy-terminated deployments, TLS for standalone HTTPS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is the lifecycle contract the entrypoint drives: serve until a
// graceful Stop.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
