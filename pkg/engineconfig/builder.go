// Package engineconfig synthesizes the configuration document for the
// proxy engine.
//
// The document always holds three inbounds. The first binds the public
// port and forwards everything it does not terminate through its fallback
// table: by default to the loopback XHTTP listener, "/hello" to the plain
// health responder and "/vless" to the loopback WebSocket listener.
package engineconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed listener layout.
const (
	LoopbackAddress = "127.0.0.1"

	XHTTPPort     = 3001
	XHTTPPath     = "/xh"
	WebSocketPort = 3002
	WebSocketPath = "/vless"

	HelloPath = "/hello"
)

// Transport network names.
const (
	NetworkXHTTP     = "xhttp"
	NetworkWebSocket = "ws"
)

const (
	protocolVLESS     = "vless"
	protocolFreedom   = "freedom"
	protocolBlackhole = "blackhole"
	decryptionNone    = "none"
	logNone           = "none"
	dohServer         = "https+local://1.1.1.1/dns-query"
	outboundDirect    = "direct"
	outboundBlock     = "block"
)

// Params are the runtime inputs of the document.
type Params struct {
	// Identity is the only accepted client id on every inbound.
	Identity string

	// Port is the public port of the primary inbound.
	Port int

	// HealthPort receives the "/hello" fallback.
	HealthPort int
}

// Build returns the document for identity on port, with the health
// responder sharing that port.
func Build(identity string, port int) Document {
	return BuildParams(Params{Identity: identity, Port: port, HealthPort: port})
}

// BuildParams returns the document for p. It is a pure function of p.
func BuildParams(p Params) Document {
	clients := func() []Client { return []Client{{ID: p.Identity}} }

	return Document{
		Log: LogConfig{
			Access:   logNone,
			Error:    logNone,
			LogLevel: logNone,
		},
		Inbounds: []Inbound{
			{
				Port:     p.Port,
				Protocol: protocolVLESS,
				Settings: InboundSettings{
					Clients:    clients(),
					Decryption: decryptionNone,
					Fallbacks: []Fallback{
						{Dest: XHTTPPort},
						{Path: HelloPath, Dest: p.HealthPort},
						{Path: WebSocketPath, Dest: WebSocketPort},
					},
				},
			},
			{
				Port:     XHTTPPort,
				Listen:   LoopbackAddress,
				Protocol: protocolVLESS,
				Settings: InboundSettings{Clients: clients(), Decryption: decryptionNone},
				StreamSettings: &StreamSettings{
					Network:       NetworkXHTTP,
					XHTTPSettings: &PathSettings{Path: XHTTPPath},
				},
			},
			{
				Port:     WebSocketPort,
				Listen:   LoopbackAddress,
				Protocol: protocolVLESS,
				Settings: InboundSettings{Clients: clients(), Decryption: decryptionNone},
				StreamSettings: &StreamSettings{
					Network:    NetworkWebSocket,
					WSSettings: &PathSettings{Path: WebSocketPath},
				},
			},
		},
		DNS: DNSConfig{
			Servers:      []string{dohServer},
			DisableCache: true,
		},
		Outbounds: []Outbound{
			{Protocol: protocolFreedom, Tag: outboundDirect},
			{Protocol: protocolBlackhole, Tag: outboundBlock},
		},
	}
}

// Marshal encodes the document as two-space indented JSON.
func (d Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Fallback returns the primary inbound's fallback for path. An empty path
// selects the default route.
func (d Document) Fallback(path string) (Fallback, bool) {
	if len(d.Inbounds) == 0 {
		return Fallback{}, false
	}
	for _, fb := range d.Inbounds[0].Settings.Fallbacks {
		if fb.Path == path {
			return fb, true
		}
	}
	return Fallback{}, false
}

// InboundByNetwork returns the first inbound using the given transport.
func (d Document) InboundByNetwork(network string) (Inbound, bool) {
	for _, in := range d.Inbounds {
		if in.StreamSettings != nil && in.StreamSettings.Network == network {
			return in, true
		}
	}
	return Inbound{}, false
}

// Write encodes doc to path, creating the parent directory.
func Write(path string, doc Document) error {
	data, err := doc.Marshal()
	if err != nil {
		// Every field is a plain string, int or bool.
		panic(fmt.Sprintf("engineconfig: marshal: %v", err))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write engine config %s: %w", path, err)
	}
	return nil
}
