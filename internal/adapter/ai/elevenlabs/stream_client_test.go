package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/seu-repo/vox-agenda/pkg/config"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// fakeSynthesisServer accepts one stream-input connection, records the
// frames the client sends and plays back scripted responses.
type fakeSynthesisServer struct {
	t         *testing.T
	initSeen  chan initFrame
	textSeen  chan textFrame
	responses [][]byte
}

func newFakeSynthesisServer(t *testing.T, responses ...string) (*fakeSynthesisServer, *httptest.Server) {
	fake := &fakeSynthesisServer{
		t:        t,
		initSeen: make(chan initFrame, 1),
		textSeen: make(chan textFrame, 8),
	}
	for _, r := range responses {
		fake.responses = append(fake.responses, []byte(r))
	}

	server := httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(server.Close)
	return fake, server
}

func (f *fakeSynthesisServer) handle(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.URL.Path, "/stream-input") {
		f.t.Errorf("unexpected path: %s", r.URL.Path)
	}
	if got := r.URL.Query().Get("model_id"); got != "eleven_turbo_v2_5" {
		f.t.Errorf("unexpected model_id: %q", got)
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		f.t.Errorf("accept failed: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()

	_, data, err := conn.Read(ctx)
	if err != nil {
		return
	}
	var init initFrame
	if err := json.Unmarshal(data, &init); err != nil {
		f.t.Errorf("decode init frame: %v", err)
		return
	}
	f.initSeen <- init

	_, data, err = conn.Read(ctx)
	if err != nil {
		return
	}
	var text textFrame
	if err := json.Unmarshal(data, &text); err != nil {
		f.t.Errorf("decode text frame: %v", err)
		return
	}
	f.textSeen <- text

	for _, resp := range f.responses {
		if err := conn.Write(ctx, websocket.MessageText, resp); err != nil {
			return
		}
	}

	// hold the connection open until the client closes it
	conn.Read(ctx)
}

func newStreamClient(serverURL string) *StreamClient {
	return NewStreamClient(config.ElevenLabsConfig{
		APIKey:  "el-test-key",
		VoiceID: "21m00Tcm4TlvDq8ikWAM",
		BaseURL: strings.Replace(serverURL, "http://", "ws://", 1),
	}, newTestLogger())
}

func TestConnect_SendsInitFrame(t *testing.T) {
	// Arrange
	fake, server := newFakeSynthesisServer(t)
	client := newStreamClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	stream, err := client.Connect(ctx)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer stream.Close()

	select {
	case init := <-fake.initSeen:
		if init.Text != " " {
			t.Errorf("expected single-space seed text, got %q", init.Text)
		}
		if init.APIKey != "el-test-key" {
			t.Errorf("unexpected api key: %q", init.APIKey)
		}
		if init.VoiceSettings.Stability != 0.5 || init.VoiceSettings.SimilarityBoost != 0.8 {
			t.Errorf("unexpected voice settings: %+v", init.VoiceSettings)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the init frame")
	}
}

func TestSendText_FlushFrame(t *testing.T) {
	// Arrange
	fake, server := newFakeSynthesisServer(t)
	client := newStreamClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.Connect(ctx)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer stream.Close()

	// Act
	if err := stream.SendText(ctx, "I've scheduled that for you!"); err != nil {
		t.Fatalf("send text failed: %v", err)
	}

	// Assert
	select {
	case text := <-fake.textSeen:
		if text.Text != "I've scheduled that for you!" {
			t.Errorf("unexpected text: %q", text.Text)
		}
		if !text.Flush {
			t.Error("expected flush to be set on every text frame")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the text frame")
	}
}

func TestReceiveAudio_LargeFrame(t *testing.T) {
	// Arrange: one frame whose audio payload alone is well past 32 KiB.
	payload := strings.Repeat("A", 96*1024)
	_, server := newFakeSynthesisServer(t,
		`{"audio":"`+payload+`","isFinal":false}`,
	)
	client := newStreamClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.Connect(ctx)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer stream.Close()

	if err := stream.SendText(ctx, "hello"); err != nil {
		t.Fatalf("send text failed: %v", err)
	}

	// Act
	chunk, err := stream.ReceiveAudio(ctx)

	// Assert
	if err != nil {
		t.Fatalf("expected no error for a large frame, got %v", err)
	}
	if len(chunk) != len(payload) {
		t.Errorf("expected %d bytes of audio, got %d", len(payload), len(chunk))
	}
}

func TestReceiveAudio_SkipsFramesWithoutAudio(t *testing.T) {
	// Arrange
	_, server := newFakeSynthesisServer(t,
		`{"isFinal":false}`,
		`{"audio":"YWJj","isFinal":false}`,
	)
	client := newStreamClient(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.Connect(ctx)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	defer stream.Close()

	if err := stream.SendText(ctx, "hello"); err != nil {
		t.Fatalf("send text failed: %v", err)
	}

	// Act
	chunk, err := stream.ReceiveAudio(ctx)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(chunk) != "YWJj" {
		t.Errorf("expected base64 audio payload passed through verbatim, got %q", chunk)
	}
}
