package server

import (
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// serverMessage is the union of all messages the server sends.
type serverMessage struct {
	Type     string `json:"type"`
	ID       uint64 `json:"id"`
	Decision string `json:"decision"`
	Action   string `json:"action"`
	Proceed  bool   `json:"proceed"`
	Code     string `json:"code"`
	Error    string `json:"error"`
	Payload  *struct {
		PagePath string            `json:"pagePath"`
		Params   map[string]string `json:"params"`
		View     *struct {
			Name string `json:"name"`
		} `json:"view"`
		URL string `json:"url"`
	} `json:"payload"`
}

func dial(t *testing.T, s *Server, serverURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	c, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	waitFor(t, func() bool { return s.ConnectionCount() >= 1 })
	return c
}

func send(t *testing.T, c *websocket.Conn, v any) {
	t.Helper()
	if err := c.WriteJSON(v); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
}

func recv(t *testing.T, c *websocket.Conn) serverMessage {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg serverMessage
	if err := c.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

// expectSilence leaves c unusable: gorilla fails every read after a timeout.
func expectSilence(t *testing.T, c *websocket.Conn) {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, data, err := c.ReadMessage()
	if err == nil {
		t.Fatalf("unexpected message %s", data)
	}
	if ne, ok := err.(net.Error); !ok || !ne.Timeout() {
		t.Fatalf("read error = %v, want timeout", err)
	}
}

func navigate(id uint64, view map[string]any, intent map[string]any) map[string]any {
	return map[string]any{"type": "navigate", "id": id, "view": view, "intent": intent}
}

func openView() map[string]any {
	return map[string]any{"name": "main", "main": true, "allowPageChange": true}
}

func TestWebSocket_InterceptDeliversRoute(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, s, ts.URL)

	send(t, c, navigate(1, openView(), map[string]any{"url": "/users/7"}))

	decision := recv(t, c)
	if decision.Type != "decision" || decision.ID != 1 {
		t.Fatalf("first message = %+v, want decision 1", decision)
	}
	if decision.Decision != "intercept" || decision.Action != "PUSH" || decision.Proceed {
		t.Errorf("decision = %+v, want intercept PUSH proceed=false", decision)
	}

	route := recv(t, c)
	if route.Type != "route" || route.ID != 1 || route.Payload == nil {
		t.Fatalf("second message = %+v, want route 1", route)
	}
	if route.Payload.PagePath != "/users/:id" || route.Payload.Params["id"] != "7" {
		t.Errorf("payload = %+v", route.Payload)
	}
	if route.Payload.View == nil || route.Payload.View.Name != "main" {
		t.Errorf("payload view = %+v, want main", route.Payload.View)
	}
}

func TestWebSocket_AllowedIntents(t *testing.T) {
	s, ts := newTestServer(t, nil)

	blocked := openView()
	blocked["allowPageChange"] = false

	resident := openView()
	resident["history"] = []string{"/users/1"}
	resident["pagesCache"] = map[string]any{"/users/1": true}

	tests := []struct {
		name        string
		view        map[string]any
		intent      map[string]any
		wantProceed bool
	}{
		{"blocked view", blocked, map[string]any{"url": "/users/1"}, false},
		{"placeholder", openView(), map[string]any{"url": "#"}, true},
		{"page element", openView(), map[string]any{"url": "/users/1", "pageElement": "el"}, true},
		{"resident page", resident, map[string]any{"url": "/users/1"}, true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := dial(t, s, ts.URL)
			id := uint64(i + 1)
			send(t, c, navigate(id, tt.view, tt.intent))
			msg := recv(t, c)
			if msg.Type != "decision" || msg.ID != id || msg.Decision != "allow" {
				t.Fatalf("message = %+v, want allow decision %d", msg, id)
			}
			if msg.Proceed != tt.wantProceed {
				t.Errorf("proceed = %v, want %v", msg.Proceed, tt.wantProceed)
			}
			if msg.Action != "" {
				t.Errorf("action = %q, want empty", msg.Action)
			}
			expectSilence(t, c)
		})
	}
}

func TestWebSocket_BackIsPop(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, s, ts.URL)

	send(t, c, navigate(4, openView(), map[string]any{"url": "/", "isBack": true}))

	if msg := recv(t, c); msg.Action != "POP" {
		t.Errorf("action = %q, want POP", msg.Action)
	}
	if msg := recv(t, c); msg.Type != "route" || msg.Payload.PagePath != "/" {
		t.Errorf("route = %+v, want /", msg)
	}
}

func TestWebSocket_NotFound(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, s, ts.URL)

	send(t, c, navigate(9, openView(), map[string]any{"url": "/missing"}))

	if msg := recv(t, c); msg.Type != "decision" || msg.Decision != "intercept" {
		t.Fatalf("first message = %+v, want intercept decision", msg)
	}
	msg := recv(t, c)
	if msg.Type != "error" || msg.ID != 9 || msg.Code != "E200" {
		t.Errorf("second message = %+v, want E200 error for id 9", msg)
	}
	if want := "/missing: E200: No route matches URL"; msg.Error != want {
		t.Errorf("error text = %q, want %q", msg.Error, want)
	}
}

func TestWebSocket_MalformedURL(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, s, ts.URL)

	send(t, c, navigate(2, openView(), map[string]any{"url": "http://[::1"}))

	msg := recv(t, c)
	if msg.Type != "error" || msg.ID != 2 || msg.Code != "E201" {
		t.Errorf("message = %+v, want E201 error for id 2", msg)
	}
	expectSilence(t, c)
}

func TestWebSocket_InvalidMessages(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, s, ts.URL)

	if err := c.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if msg := recv(t, c); msg.Type != "error" || msg.Code != "E202" {
		t.Errorf("bad json reply = %+v, want E202", msg)
	}

	send(t, c, map[string]any{"type": "subscribe", "id": 3})
	if msg := recv(t, c); msg.Type != "error" || msg.ID != 3 || msg.Code != "E202" {
		t.Errorf("unknown type reply = %+v, want E202 for id 3", msg)
	}

	send(t, c, map[string]any{"type": "navigate", "id": 4})
	if msg := recv(t, c); msg.Type != "error" || msg.ID != 4 || msg.Code != "E202" {
		t.Errorf("missing intent reply = %+v, want E202 for id 4", msg)
	}

	// The connection survives bad input.
	send(t, c, navigate(5, openView(), map[string]any{"url": "/users/1"}))
	if msg := recv(t, c); msg.Type != "decision" || msg.ID != 5 {
		t.Errorf("reply = %+v, want decision 5", msg)
	}
}

func TestWebSocket_DecisionPrecedesRoute(t *testing.T) {
	s, ts := newTestServer(t, nil)
	c := dial(t, s, ts.URL)

	const n = 20
	for i := 1; i <= n; i++ {
		send(t, c, navigate(uint64(i), openView(), map[string]any{"url": "/users/" + string(rune('a'+i))}))
	}

	decided := map[uint64]bool{}
	routed := map[uint64]bool{}
	for len(routed) < n {
		msg := recv(t, c)
		switch msg.Type {
		case "decision":
			decided[msg.ID] = true
		case "route":
			if !decided[msg.ID] {
				t.Fatalf("route %d arrived before its decision", msg.ID)
			}
			routed[msg.ID] = true
		default:
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestWebSocket_DropStale(t *testing.T) {
	s, ts := newTestServer(t, func(c *ServerConfig) { c.DropStale = true })
	c := dial(t, s, ts.URL)

	send(t, c, navigate(1, openView(), map[string]any{"url": "/users/1"}))

	if msg := recv(t, c); msg.Type != "decision" {
		t.Fatalf("message = %+v, want decision", msg)
	}
	msg := recv(t, c)
	if msg.Type != "route" || msg.ID != 1 {
		t.Errorf("message = %+v, want route 1", msg)
	}
}

func TestWebSocket_MessageShape(t *testing.T) {
	raw, err := json.Marshal(decisionMessage{Type: typeDecision, ID: 1, Decision: "allow"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := m["proceed"]; !ok {
		t.Errorf("decision message %s omits proceed", raw)
	}
	if _, ok := m["action"]; ok {
		t.Errorf("allow decision %s carries an action", raw)
	}
}
