package messages

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/affanshahid/finny/pkg/record"
)

// FileStore serves messages from a YAML file, as written by WriteFile.
type FileStore struct {
	msgs []record.Message
}

type dump struct {
	Messages []record.Message `yaml:"messages"`
}

// LoadFile reads a message dump.
func LoadFile(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message file: %w", err)
	}

	var d dump
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	msgs := slices.Clone(d.Messages)
	slices.SortStableFunc(msgs, func(a, b record.Message) int {
		return a.Time.Compare(b.Time)
	})
	return &FileStore{msgs: msgs}, nil
}

// Fetch applies q to the loaded messages.
func (s *FileStore) Fetch(_ context.Context, q Query) ([]record.Message, error) {
	var out []record.Message
	for _, m := range s.msgs {
		if q.matches(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

// WriteFile writes msgs as a dump LoadFile can read.
func WriteFile(path string, msgs []record.Message) error {
	data, err := yaml.Marshal(dump{Messages: msgs})
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write message file: %w", err)
	}
	return nil
}
