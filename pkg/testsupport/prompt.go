package testsupport

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-entityform/pkg/prompt"
)

// StubDriver is a scripted prompt.Driver. Each prompt kind consumes its own
// queue; running out of answers returns an error.
type StubDriver struct {
	mu sync.Mutex

	Inputs   []string
	Selects  []int
	Confirms []bool
	// SelectErr, when set, is returned by the next Select instead of an
	// answer.
	SelectErr error

	InputPrompts  []prompt.InputConfig
	SelectPrompts []prompt.SelectConfig
	InfoMessages  []string
}

var _ prompt.Driver = (*StubDriver)(nil)

func (s *StubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InputPrompts = append(s.InputPrompts, cfg)
	if len(s.Inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	return val, nil
}

func (s *StubDriver) Confirm(_ context.Context, _ prompt.ConfirmConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return val, nil
}

func (s *StubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectPrompts = append(s.SelectPrompts, cfg)
	if s.SelectErr != nil {
		err := s.SelectErr
		s.SelectErr = nil
		return -1, err
	}
	if len(s.Selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.Selects[0]
	s.Selects = s.Selects[1:]
	return val, nil
}

func (s *StubDriver) Info(_ context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InfoMessages = append(s.InfoMessages, msg)
	return nil
}
