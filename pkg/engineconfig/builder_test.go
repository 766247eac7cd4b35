package engineconfig

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const testID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

func TestBuild_Deterministic(t *testing.T) {
	a, err := Build(testID, 3000).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	b, err := Build(testID, 3000).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Build() output differs between identical calls")
	}
}

func TestBuild_Listeners(t *testing.T) {
	for _, port := range []int{3000, 8080, 25565} {
		doc := Build(testID, port)

		if len(doc.Inbounds) != 3 {
			t.Fatalf("port %d: got %d inbounds, want 3", port, len(doc.Inbounds))
		}

		public := doc.Inbounds[0]
		if public.Port != port || public.Listen != "" || public.StreamSettings != nil {
			t.Errorf("port %d: public inbound = %+v", port, public)
		}

		xhttp, ok := doc.InboundByNetwork(NetworkXHTTP)
		if !ok {
			t.Fatalf("port %d: no xhttp inbound", port)
		}
		if xhttp.Port != XHTTPPort || xhttp.Listen != LoopbackAddress {
			t.Errorf("xhttp inbound bound to %s:%d", xhttp.Listen, xhttp.Port)
		}
		if xhttp.StreamSettings.XHTTPSettings == nil || xhttp.StreamSettings.XHTTPSettings.Path != XHTTPPath {
			t.Errorf("xhttp path = %+v, want %s", xhttp.StreamSettings.XHTTPSettings, XHTTPPath)
		}

		ws, ok := doc.InboundByNetwork(NetworkWebSocket)
		if !ok {
			t.Fatalf("port %d: no ws inbound", port)
		}
		if ws.Port != WebSocketPort || ws.Listen != LoopbackAddress {
			t.Errorf("ws inbound bound to %s:%d", ws.Listen, ws.Port)
		}
		if ws.StreamSettings.WSSettings == nil || ws.StreamSettings.WSSettings.Path != WebSocketPath {
			t.Errorf("ws path = %+v, want %s", ws.StreamSettings.WSSettings, WebSocketPath)
		}

		for i, in := range doc.Inbounds {
			if len(in.Settings.Clients) != 1 || in.Settings.Clients[0].ID != testID {
				t.Errorf("inbound %d clients = %+v", i, in.Settings.Clients)
			}
			if in.Protocol != "vless" || in.Settings.Decryption != "none" {
				t.Errorf("inbound %d protocol = %q decryption = %q", i, in.Protocol, in.Settings.Decryption)
			}
		}
	}
}

func TestBuild_FallbackRouting(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		wantHello int
	}{
		{name: "shared port", params: Params{Identity: testID, Port: 3000, HealthPort: 3000}, wantHello: 3000},
		{name: "custom port", params: Params{Identity: testID, Port: 443, HealthPort: 443}, wantHello: 443},
		{name: "separate health port", params: Params{Identity: testID, Port: 8443, HealthPort: 3000}, wantHello: 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := BuildParams(tt.params)
			xhttp, _ := doc.InboundByNetwork(NetworkXHTTP)
			ws, _ := doc.InboundByNetwork(NetworkWebSocket)

			def, ok := doc.Fallback("")
			if !ok || def.Dest != xhttp.Port {
				t.Errorf("default fallback = %+v, want dest %d", def, xhttp.Port)
			}
			hello, ok := doc.Fallback(HelloPath)
			if !ok || hello.Dest != tt.wantHello {
				t.Errorf("/hello fallback = %+v, want dest %d", hello, tt.wantHello)
			}
			vless, ok := doc.Fallback(WebSocketPath)
			if !ok || vless.Dest != ws.Port {
				t.Errorf("/vless fallback = %+v, want dest %d", vless, ws.Port)
			}
			if _, ok := doc.Fallback("/missing"); ok {
				t.Error("unexpected fallback for /missing")
			}
		})
	}

	if hello, _ := Build(testID, 9000).Fallback(HelloPath); hello.Dest != 9000 {
		t.Errorf("Build(): /hello dest = %d, want the configured port 9000", hello.Dest)
	}
}

func TestDocument_Marshal_Schema(t *testing.T) {
	data, err := Build(testID, 3000).Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	log := raw["log"].(map[string]any)
	for _, key := range []string{"access", "error", "loglevel"} {
		if log[key] != "none" {
			t.Errorf("log.%s = %v, want none", key, log[key])
		}
	}

	dns := raw["dns"].(map[string]any)
	if dns["disableCache"] != true {
		t.Errorf("dns.disableCache = %v, want true", dns["disableCache"])
	}
	servers := dns["servers"].([]any)
	if len(servers) != 1 || servers[0] != "https+local://1.1.1.1/dns-query" {
		t.Errorf("dns.servers = %v", servers)
	}

	outbounds := raw["outbounds"].([]any)
	want := []struct{ protocol, tag string }{{"freedom", "direct"}, {"blackhole", "block"}}
	if len(outbounds) != len(want) {
		t.Fatalf("got %d outbounds, want %d", len(outbounds), len(want))
	}
	for i, w := range want {
		ob := outbounds[i].(map[string]any)
		if ob["protocol"] != w.protocol || ob["tag"] != w.tag {
			t.Errorf("outbound %d = %v, want %s/%s", i, ob, w.protocol, w.tag)
		}
	}

	inbounds := raw["inbounds"].([]any)
	public := inbounds[0].(map[string]any)
	if _, ok := public["listen"]; ok {
		t.Error("public inbound must not set listen")
	}
	if _, ok := public["streamSettings"]; ok {
		t.Error("public inbound must not set streamSettings")
	}
	ws := inbounds[2].(map[string]any)["streamSettings"].(map[string]any)
	if ws["network"] != "ws" || ws["wsSettings"].(map[string]any)["path"] != "/vless" {
		t.Errorf("ws streamSettings = %v", ws)
	}
	if !bytes.Contains(data, []byte("\n  \"inbounds\": [")) {
		t.Error("expected two-space indentation")
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp", "config.json")
	doc := Build(testID, 3000)

	if err := Write(path, doc); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	want, _ := doc.Marshal()
	if !bytes.Equal(got, want) {
		t.Error("written file does not match Marshal() output")
	}

	var decoded Document
	if err := json.Unmarshal(got, &decoded); err != nil {
		t.Fatalf("written config does not decode: %v", err)
	}
	if len(decoded.Inbounds) != 3 {
		t.Errorf("decoded %d inbounds, want 3", len(decoded.Inbounds))
	}
}

func TestWrite_Error(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Write(filepath.Join(blocker, "config.json"), Build(testID, 3000)); err == nil {
		t.Error("expected error when parent is a file")
	}
}
