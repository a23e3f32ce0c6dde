package websocket

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/vox-agenda/internal/observability/telemetry"
	"github.com/seu-repo/vox-agenda/internal/ports"
)

// clientConn is the subset of the client websocket connection the session
// loops use.
type clientConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// VoiceSessionHandler owns one synthesis connection per client voice
// session and runs the turn loop and the audio forwarding loop
// concurrently until either side terminates.
type VoiceSessionHandler struct {
	conversation ports.ConversationService
	speech       ports.SpeechStreamDialer
	log          *zap.Logger
}

func NewVoiceSessionHandler(conversation ports.ConversationService, speech ports.SpeechStreamDialer, log *zap.Logger) *VoiceSessionHandler {
	return &VoiceSessionHandler{
		conversation: conversation,
		speech:       speech,
		log:          log,
	}
}

// HandleVoiceSession runs one session to completion.
func (h *VoiceSessionHandler) HandleVoiceSession(c *websocket.Conn) {
	h.runSession(c)
}

func (h *VoiceSessionHandler) runSession(c clientConn) {
	sessionID := uuid.NewString()
	log := h.log.With(zap.String("session_id", sessionID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := h.speech.Connect(ctx)
	if err != nil {
		log.Error("Failed to open synthesis stream", zap.Error(err))
		return
	}

	telemetry.ActiveVoiceSessions.Inc()
	defer telemetry.ActiveVoiceSessions.Dec()
	log.Info("Voice session started")

	// Both loops share one cancellation scope: the first to exit cancels
	// the other, and closing both sockets unblocks any pending read.
	go func() {
		<-ctx.Done()
		stream.Close()
		c.Close()
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer cancel()
		h.turnLoop(ctx, c, stream, log)
	}()
	go func() {
		defer wg.Done()
		defer cancel()
		h.audioLoop(ctx, c, stream, log)
	}()
	wg.Wait()

	log.Info("Voice session ended")
}

// turnLoop blocks for the next client utterance, resolves the turn and
// hands the finalized reply to the synthesis stream. Turns are strictly
// sequential: the next utterance is not read until the previous reply has
// been fully handed off.
func (h *VoiceSessionHandler) turnLoop(ctx context.Context, c clientConn, stream ports.SpeechStream, log *zap.Logger) {
	for {
		messageType, msg, err := c.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Info("Client connection closed", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		reply, err := h.conversation.HandleTurn(ctx, string(msg))
		if err != nil {
			log.Error("Turn failed", zap.Error(err))
			return
		}
		if reply == "" {
			continue
		}

		if err := stream.SendText(ctx, reply); err != nil {
			log.Error("Failed to forward reply to synthesis", zap.Error(err))
			return
		}
	}
}

// audioLoop drains synthesized audio and forwards each chunk to the
// client verbatim, in arrival order.
func (h *VoiceSessionHandler) audioLoop(ctx context.Context, c clientConn, stream ports.SpeechStream, log *zap.Logger) {
	for {
		chunk, err := stream.ReceiveAudio(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("Synthesis stream read failed", zap.Error(err))
			}
			return
		}

		if err := c.WriteMessage(websocket.TextMessage, []byte(chunk)); err != nil {
			log.Error("Failed to forward audio to client", zap.Error(err))
			return
		}
		telemetry.AudioChunksForwarded.Inc()
	}
}

// SetupVoiceRoutes registers the voice websocket endpoint.
func SetupVoiceRoutes(app *fiber.App, handler *VoiceSessionHandler) {
	app.Use("/ws/voice", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/voice", websocket.New(handler.HandleVoiceSession))
}
