package main

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Simulator is a voice session client: it sends utterance text the way a
// frontend with speech-to-text would, and counts the synthesized audio
// chunks coming back.
type Simulator struct {
	serverURL string
	conn      *websocket.Conn
	log       *zap.Logger

	mu          sync.Mutex
	chunkCount  int
	audioBytes  int
	lastChunkAt time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSimulator(serverURL string, log *zap.Logger) *Simulator {
	return &Simulator{
		serverURL: serverURL,
		log:       log,
		stopChan:  make(chan struct{}),
	}
}

// Connect dials the voice endpoint and starts draining audio frames.
func (s *Simulator) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(s.serverURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.serverURL, err)
	}
	s.conn = conn
	s.log.Info("Connected to voice endpoint", zap.String("url", s.serverURL))

	s.wg.Add(1)
	go s.drainAudio()

	return nil
}

func (s *Simulator) drainAudio() {
	defer s.wg.Done()
	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.stopChan:
			default:
				s.log.Info("Connection closed", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		decoded, err := base64.StdEncoding.DecodeString(string(data))
		if err != nil {
			s.log.Warn("Received non-base64 frame", zap.Int("len", len(data)))
			continue
		}

		s.mu.Lock()
		s.chunkCount++
		s.audioBytes += len(decoded)
		s.lastChunkAt = time.Now()
		count := s.chunkCount
		total := s.audioBytes
		s.mu.Unlock()

		s.log.Debug("Audio chunk received",
			zap.Int("chunk", count),
			zap.Int("decoded_bytes", len(decoded)),
			zap.Int("total_bytes", total),
		)
	}
}

// SendUtterance forwards one utterance as a text frame.
func (s *Simulator) SendUtterance(text string) error {
	return s.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// WaitForAudio blocks until the audio stream has been quiet for a while,
// then prints a summary.
func (s *Simulator) WaitForAudio() {
	const quiet = 3 * time.Second
	deadline := time.Now().Add(30 * time.Second)
	for {
		time.Sleep(500 * time.Millisecond)
		s.mu.Lock()
		count := s.chunkCount
		last := s.lastChunkAt
		bytes := s.audioBytes
		s.mu.Unlock()

		if count > 0 && time.Since(last) > quiet {
			fmt.Printf("Received %d audio chunks (%d bytes decoded)\n", count, bytes)
			return
		}
		if time.Now().After(deadline) {
			fmt.Printf("Timed out: received %d audio chunks (%d bytes decoded)\n", count, bytes)
			return
		}
	}
}

// RunInteractive reads utterances from stdin until EOF.
func (s *Simulator) RunInteractive() {
	fmt.Println("Type an utterance and press enter (Ctrl-D to quit):")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := s.SendUtterance(text); err != nil {
			s.log.Error("Failed to send utterance", zap.Error(err))
			return
		}
	}
}

// Stop closes the connection and waits for the drain loop.
func (s *Simulator) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.conn != nil {
			s.conn.Close()
		}
		s.wg.Wait()
	})
}
