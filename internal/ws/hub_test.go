package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AndrewBunn00/Mega-Cube/internal/anim"
	"github.com/AndrewBunn00/Mega-Cube/internal/app"
	"github.com/AndrewBunn00/Mega-Cube/internal/config"
	"github.com/AndrewBunn00/Mega-Cube/internal/cube"
	"github.com/AndrewBunn00/Mega-Cube/internal/led"
)

type nopEffect struct{ name string }

func (n *nopEffect) Name() string { return n.name }

func (n *nopEffect) Init(config.Effect) {}

func (n *nopEffect) Update(dt float64, d *cube.Display) {}

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	cond := app.NewConductor(config.Default(), led.NewSim(), []anim.Effect{
		&nopEffect{name: "alpha"},
		&nopEffect{name: "beta"},
	})
	h := NewHub(cond)
	mux := http.NewServeMux()
	h.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return h, srv
}

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundtrip(t *testing.T, conn *websocket.Conn, msg string) ack {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var a ack
	if err := conn.ReadJSON(&a); err != nil {
		t.Fatalf("read ack: %v", err)
	}
	return a
}

func TestControlAcksValidSelection(t *testing.T) {
	_, srv := newTestHub(t)
	conn := dialWS(t, srv, "/control")

	a := roundtrip(t, conn, `{"select": 1}`)
	if !a.OK || a.Client == "" {
		t.Fatalf("expected ok ack with client id, got %+v", a)
	}
	if a2 := roundtrip(t, conn, `{"effect": "alpha", "brightness": 0.4}`); !a2.OK {
		t.Fatalf("name selection rejected: %+v", a2)
	}
}

func TestControlRejectsBadInput(t *testing.T) {
	_, srv := newTestHub(t)
	conn := dialWS(t, srv, "/control")

	if a := roundtrip(t, conn, `{"select": 9}`); a.OK || a.Error == "" {
		t.Fatalf("out-of-range index accepted: %+v", a)
	}
	if a := roundtrip(t, conn, `{"effect": "nope"}`); a.OK {
		t.Fatalf("unknown name accepted: %+v", a)
	}
	if a := roundtrip(t, conn, `not json`); a.OK {
		t.Fatalf("malformed message accepted: %+v", a)
	}
}

func TestFrameBroadcastReachesClient(t *testing.T) {
	h, srv := newTestHub(t)
	conn := dialWS(t, srv, "/frames")

	// Registration races the broadcast; retry briefly.
	rgb := make([]byte, cube.Voxels*3)
	rgb[0] = 255
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		h.BroadcastFrame(7, rgb)
		conn.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		_, data, err := conn.ReadMessage()
		if err != nil {
			continue
		}
		var f struct {
			FrameID uint64 `json:"frame_id"`
			RGB     []byte `json:"rgb"`
		}
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("bad frame payload: %v", err)
		}
		if f.FrameID != 7 || len(f.RGB) != cube.Voxels*3 || f.RGB[0] != 255 {
			t.Fatalf("frame mangled: id=%d len=%d", f.FrameID, len(f.RGB))
		}
		return
	}
	t.Fatal("no frame received")
}

func TestHealthReportsEffects(t *testing.T) {
	_, srv := newTestHub(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Effects []string   `json:"effects"`
		Status  app.Status `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Effects) != 2 || body.Effects[0] != "alpha" {
		t.Fatalf("effects list wrong: %v", body.Effects)
	}
}
