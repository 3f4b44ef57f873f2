package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DevSender writes each message to a local directory instead of sending it.
// One HTML file holds the rendered body and a sibling JSON file holds the
// envelope, so emailed links can be followed during development.
type DevSender struct {
	dir string
}

// NewDevSender creates a DevSender writing into dir, creating it if needed.
func NewDevSender(dir string) (*DevSender, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &DevSender{dir: dir}, nil
}

// SendEmail writes the message to disk.
func (s *DevSender) SendEmail(_ context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	base := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(params.SendTo))

	if err := os.WriteFile(filepath.Join(s.dir, base+".html"), []byte(params.BodyHTML), 0o644); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	meta, err := json.MarshalIndent(map[string]string{
		"to":      params.SendTo,
		"subject": params.Subject,
		"tag":     params.Tag,
		"sent_at": time.Now().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, base+".json"), meta, 0o644); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	return nil
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
