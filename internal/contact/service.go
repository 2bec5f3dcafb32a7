package contact

import (
	"errors"
	"strings"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Submit(m Message) (Message, error) {
	if m.Name == "" || m.Content == "" {
		return Message{}, errors.New("name and content are required")
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return Message{}, errors.New("invalid email")
	}

	m.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Create(m)
}

func (s *Service) List() ([]Message, error) {
	return s.repo.List()
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
