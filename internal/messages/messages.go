package messages

import (
	"sync"

	"go.uber.org/zap"
)

// Service collects the human readable messages produced while talking to the heroes API.
type Service struct {
	logger   *zap.SugaredLogger
	lock     sync.Mutex
	messages []string
}

func NewService(logger *zap.SugaredLogger) *Service {
	return &Service{
		logger:   logger.Named("messages"),
		messages: make([]string, 0),
	}
}

func (s *Service) Add(message string) {
	s.lock.Lock()
	s.messages = append(s.messages, message)
	s.lock.Unlock()
	s.logger.Info(message)
}

// Messages returns a copy of everything added since the last Clear.
func (s *Service) Messages() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	res := make([]string, len(s.messages))
	copy(res, s.messages)
	return res
}

func (s *Service) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.messages = make([]string, 0)
}
