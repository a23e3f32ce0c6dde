package elevenlabs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/ports"
	"github.com/seu-repo/vox-agenda/pkg/config"
)

// Fixed voice parameters sent on every session init.
const (
	voiceStability       = 0.5
	voiceSimilarityBoost = 0.8
)

// maxFrameBytes caps inbound frames. Synthesized audio chunks commonly
// run well past nhooyr's 32 KiB default read limit.
const maxFrameBytes = 1 << 20

// StreamClient dials the ElevenLabs stream-input websocket. One Stream is
// opened per voice session and lives for the whole session.
type StreamClient struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
	log     *zap.Logger
}

func NewStreamClient(cfg config.ElevenLabsConfig, log *zap.Logger) *StreamClient {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "wss://api.elevenlabs.io"
	}
	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "eleven_turbo_v2_5"
	}
	return &StreamClient{
		apiKey:  cfg.APIKey,
		voiceID: cfg.VoiceID,
		modelID: modelID,
		baseURL: baseURL,
		log:     log,
	}
}

type initFrame struct {
	Text          string        `json:"text"`
	APIKey        string        `json:"xi_api_key"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type textFrame struct {
	Text  string `json:"text"`
	Flush bool   `json:"flush"`
}

type inboundFrame struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
}

// Connect establishes the bidirectional synthesis connection and sends
// the init frame carrying a near-empty seed utterance, the credential and
// the fixed voice parameters.
func (c *StreamClient) Connect(ctx context.Context) (ports.SpeechStream, error) {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s/stream-input?model_id=%s", c.baseURL, c.voiceID, c.modelID)

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: dial stream-input: %w", err)
	}
	conn.SetReadLimit(maxFrameBytes)

	s := &Stream{conn: conn, log: c.log}

	init := initFrame{
		Text:   " ",
		APIKey: c.apiKey,
		VoiceSettings: voiceSettings{
			Stability:       voiceStability,
			SimilarityBoost: voiceSimilarityBoost,
		},
	}
	if err := s.send(ctx, init); err != nil {
		conn.Close(websocket.StatusInternalError, "init failed")
		return nil, fmt.Errorf("elevenlabs: send init frame: %w", err)
	}

	c.log.Info("Synthesis stream connected", zap.String("voice_id", c.voiceID), zap.String("model_id", c.modelID))

	return s, nil
}

// Stream is one live stream-input connection.
type Stream struct {
	conn *websocket.Conn
	log  *zap.Logger
}

// SendText forwards finalized reply text as a single flush frame. Partial
// model output is never streamed; the caller waits for the full reply.
func (s *Stream) SendText(ctx context.Context, text string) error {
	if err := s.send(ctx, textFrame{Text: text, Flush: true}); err != nil {
		return fmt.Errorf("elevenlabs: send text frame: %w", err)
	}
	return nil
}

// ReceiveAudio blocks until the next frame carrying an audio payload and
// returns it base64-encoded as received. Frames without audio are dropped.
func (s *Stream) ReceiveAudio(ctx context.Context) (domain.SpeechChunk, error) {
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return "", fmt.Errorf("elevenlabs: read frame: %w", err)
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			return "", fmt.Errorf("elevenlabs: decode frame: %w", err)
		}

		if frame.Audio != "" {
			return domain.SpeechChunk(frame.Audio), nil
		}
	}
}

// Close closes the connection. There is no drain handshake: in-flight
// audio past this point is dropped with the session.
func (s *Stream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "session ended")
}

func (s *Stream) send(ctx context.Context, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.Write(ctx, websocket.MessageText, data)
}
