package service

import (
	"context"
	"fmt"
	"strings"

	"tunehub/backend/internal/model"
	"tunehub/backend/internal/repository"
)

type ChatService interface {
	ListContacts(ctx context.Context, externalID string) ([]model.User, error)
	Conversation(ctx context.Context, me, other string) ([]model.Message, error)
	Send(ctx context.Context, from, to, content string) (*model.Message, error)
}

type chatService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

func NewChatService(userRepo repository.UserRepository, messageRepo repository.MessageRepository) ChatService {
	return &chatService{userRepo: userRepo, messageRepo: messageRepo}
}

func (s *chatService) ListContacts(ctx context.Context, externalID string) ([]model.User, error) {
	return s.userRepo.ListExcept(ctx, externalID)
}

func (s *chatService) Conversation(ctx context.Context, me, other string) ([]model.Message, error) {
	if other == "" {
		return nil, ErrInvalidInput
	}
	return s.messageRepo.Conversation(ctx, me, other)
}

func (s *chatService) Send(ctx context.Context, from, to, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	switch {
	case from == "" || to == "":
		return nil, ErrInvalidInput
	case from == to:
		return nil, ErrSelfMessage
	case content == "":
		return nil, ErrEmptyMessage
	}
	msg := &model.Message{SenderID: from, ReceiverID: to, Content: content}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	return msg, nil
}

var _ ChatService = (*chatService)(nil)
