package mocks

import (
	"context"

	"github.com/seu-repo/vox-agenda/internal/domain"
	"github.com/seu-repo/vox-agenda/internal/ports"
)

// MockCalendarService is a mock implementation of CalendarService interface
type MockCalendarService struct {
	CreateEventFunc func(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error)
}

func (m *MockCalendarService) CreateEvent(ctx context.Context, req domain.BookingRequest) (*domain.CalendarEvent, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, req)
	}
	return &domain.CalendarEvent{}, nil
}

// MockCalendarAPI is a mock implementation of CalendarAPI interface
type MockCalendarAPI struct {
	EnsureAuthorizedFunc func(ctx context.Context) error
	InsertEventFunc      func(ctx context.Context, event *domain.CalendarEvent) (string, error)
}

func (m *MockCalendarAPI) EnsureAuthorized(ctx context.Context) error {
	if m.EnsureAuthorizedFunc != nil {
		return m.EnsureAuthorizedFunc(ctx)
	}
	return nil
}

func (m *MockCalendarAPI) InsertEvent(ctx context.Context, event *domain.CalendarEvent) (string, error) {
	if m.InsertEventFunc != nil {
		return m.InsertEventFunc(ctx, event)
	}
	return "", nil
}

// MockChatCompleter is a mock implementation of ChatCompleter interface
type MockChatCompleter struct {
	CompleteFunc func(ctx context.Context, system, user string, tools []domain.ToolSchema) (*domain.ChatResult, error)
}

func (m *MockChatCompleter) Complete(ctx context.Context, system, user string, tools []domain.ToolSchema) (*domain.ChatResult, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user, tools)
	}
	return &domain.ChatResult{}, nil
}

// MockConversationService is a mock implementation of ConversationService interface
type MockConversationService struct {
	HandleTurnFunc func(ctx context.Context, utterance string) (string, error)
}

func (m *MockConversationService) HandleTurn(ctx context.Context, utterance string) (string, error) {
	if m.HandleTurnFunc != nil {
		return m.HandleTurnFunc(ctx, utterance)
	}
	return "", nil
}

// MockSpeechStream is a mock implementation of SpeechStream interface
type MockSpeechStream struct {
	SendTextFunc     func(ctx context.Context, text string) error
	ReceiveAudioFunc func(ctx context.Context) (domain.SpeechChunk, error)
	CloseFunc        func() error
}

func (m *MockSpeechStream) SendText(ctx context.Context, text string) error {
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, text)
	}
	return nil
}

func (m *MockSpeechStream) ReceiveAudio(ctx context.Context) (domain.SpeechChunk, error) {
	if m.ReceiveAudioFunc != nil {
		return m.ReceiveAudioFunc(ctx)
	}
	<-ctx.Done()
	return "", ctx.Err()
}

func (m *MockSpeechStream) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockSpeechStreamDialer is a mock implementation of SpeechStreamDialer interface
type MockSpeechStreamDialer struct {
	ConnectFunc func(ctx context.Context) (ports.SpeechStream, error)
}

func (m *MockSpeechStreamDialer) Connect(ctx context.Context) (ports.SpeechStream, error) {
	if m.ConnectFunc != nil {
		return m.ConnectFunc(ctx)
	}
	return &MockSpeechStream{}, nil
}
