package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sweetshop/internal/models"
)

// MessageStore keeps contact messages in their own JSON array file.
type MessageStore struct {
	mu       sync.Mutex
	filePath string
}

func NewMessageStore(filePath string) (*MessageStore, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &MessageStore{filePath: filePath}, nil
}

// List returns all messages in the order they were received.
func (s *MessageStore) List() ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append adds msg to the end of the file.
func (s *MessageStore) Append(msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return err
	}
	messages = append(messages, msg)

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0o644); err != nil {
		return fmt.Errorf("write messages: %w", err)
	}
	return nil
}

func (s *MessageStore) load() ([]models.Message, error) {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	if len(data) == 0 {
		return []models.Message{}, nil
	}
	var messages []models.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}
