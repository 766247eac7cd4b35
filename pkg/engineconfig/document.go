package engineconfig

// Document is the configuration file handed to the engine with "-c".
// Field names and order follow the engine's JSON schema.
type Document struct {
	Log       LogConfig  `json:"log"`
	Inbounds  []Inbound  `json:"inbounds"`
	DNS       DNSConfig  `json:"dns"`
	Outbounds []Outbound `json:"outbounds"`
}

// LogConfig controls the engine's own logging.
type LogConfig struct {
	Access   string `json:"access"`
	Error    string `json:"error"`
	LogLevel string `json:"loglevel"`
}

// Inbound is one listener the engine exposes.
type Inbound struct {
	Port           int             `json:"port"`
	Listen         string          `json:"listen,omitempty"`
	Protocol       string          `json:"protocol"`
	Settings       InboundSettings `json:"settings"`
	StreamSettings *StreamSettings `json:"streamSettings,omitempty"`
}

// InboundSettings carries the protocol credentials and the fallback table.
type InboundSettings struct {
	Clients    []Client   `json:"clients"`
	Decryption string     `json:"decryption"`
	Fallbacks  []Fallback `json:"fallbacks,omitempty"`
}

// Client is an accepted client credential.
type Client struct {
	ID string `json:"id"`
}

// Fallback routes traffic the listener does not handle itself. An empty
// Path is the default route.
type Fallback struct {
	Path string `json:"path,omitempty"`
	Dest int    `json:"dest"`
}

// StreamSettings selects the transport of an inbound.
type StreamSettings struct {
	Network       string        `json:"network"`
	XHTTPSettings *PathSettings `json:"xhttpSettings,omitempty"`
	WSSettings    *PathSettings `json:"wsSettings,omitempty"`
}

// PathSettings is the path-only settings block shared by xhttp and ws.
type PathSettings struct {
	Path string `json:"path"`
}

// DNSConfig configures the engine's resolver.
type DNSConfig struct {
	Servers      []string `json:"servers"`
	DisableCache bool     `json:"disableCache"`
}

// Outbound is a named route for outgoing traffic.
type Outbound struct {
	Protocol string `json:"protocol"`
	Tag      string `json:"tag"`
}
