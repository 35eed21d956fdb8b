package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"sweetshop/internal/logger"
	"sweetshop/internal/metrics"
	"sweetshop/internal/models"
)

// MessageRepository persists contact messages.
type MessageRepository interface {
	List() ([]models.Message, error)
	Append(msg models.Message) error
}

// MessageNotifier is told about stored contact messages.
type MessageNotifier interface {
	NotifyContactMessage(ctx context.Context, msg models.Message) error
}

// MessageService handles the contact form.
type MessageService struct {
	repo     MessageRepository
	spam     *SpamDetector
	security *SecurityLogger
	notifier MessageNotifier
	validate *validator.Validate
	logg     *logger.Logger
	metrics  *metrics.ShopMetrics
	now      func() time.Time
}

type MessageServiceParams struct {
	Repo     MessageRepository
	Spam     *SpamDetector
	Security *SecurityLogger
	Notifier MessageNotifier
	Logger   *logger.Logger
	Metrics  *metrics.ShopMetrics
	Now      func() time.Time
}

func NewMessageService(p MessageServiceParams) *MessageService {
	s := &MessageService{
		repo:     p.Repo,
		spam:     p.Spam,
		security: p.Security,
		notifier: p.Notifier,
		validate: NewValidator(),
		logg:     p.Logger,
		metrics:  p.Metrics,
		now:      p.Now,
	}
	if s.spam == nil {
		s.spam = NewSpamDetector()
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit validates and stores a contact message. Spam is dropped silently:
// it reports stored=false with a nil error.
func (s *MessageService) Submit(ctx context.Context, form models.MessageForm, ip string) (bool, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Message = strings.TrimSpace(form.Message)
	if err := s.validate.Struct(form); err != nil {
		s.metrics.IncMessage("invalid")
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.spam.IsSpam(form.Name + " " + form.Message) {
		s.metrics.IncMessage("spam")
		s.security.LogSecurityEvent(ctx, "contact_spam", form.Email, ip)
		return false, nil
	}

	now := s.now()
	msg := models.Message{
		ID:      now.UnixMilli(),
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
		Date:    models.NewMessageDate(now.UTC()),
	}
	if err := s.repo.Append(msg); err != nil {
		return false, err
	}
	s.metrics.IncMessage("stored")

	if s.notifier != nil {
		if err := s.notifier.NotifyContactMessage(ctx, msg); err != nil {
			s.logg.Error(ctx, "contact notification failed", err)
		}
	}
	return true, nil
}

// List returns messages newest first.
func (s *MessageService) List(ctx context.Context) ([]models.Message, error) {
	messages, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].ID > messages[j].ID
	})
	return messages, nil
}
