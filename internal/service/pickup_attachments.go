package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"goclean-be-svc/internal/models"
)

func (s *pickupService) attachmentDir(pickupID uint) string {
	return filepath.Join(s.cfg.UploadDir, "pickups", fmt.Sprintf("%d", pickupID))
}

// sanitizeFileName keeps the base name and replaces characters that are awkward in paths
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "file"
	}
	return name
}

// UploadAttachment stores a photo for a pickup on disk. Metadata is derived from the file, not persisted.
func (s *pickupService) UploadAttachment(actor Actor, id uint, filename string, content []byte) (*models.PickupAttachment, error) {
	if _, err := s.load(actor, id); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if s.cfg.MaxUploadBytes > 0 && int64(len(content)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.cfg.MaxUploadBytes)
	}

	dir := s.attachmentDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dir: %w", err)
	}

	original := sanitizeFileName(filename)
	stored := uuid.NewString() + "_" + original
	if err := os.WriteFile(filepath.Join(dir, stored), content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"pickup_id": id,
		"file":      stored,
		"size":      len(content),
	}).Info("Pickup attachment uploaded")

	return &models.PickupAttachment{
		PickupID:  id,
		Name:      stored,
		FileName:  original,
		Size:      int64(len(content)),
		CreatedAt: s.now(),
	}, nil
}

// ListAttachments lists the files stored for a pickup, oldest first
func (s *pickupService) ListAttachments(actor Actor, id uint) ([]*models.PickupAttachment, error) {
	if _, err := s.load(actor, id); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.attachmentDir(id))
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.PickupAttachment{}, nil
		}
		return nil, fmt.Errorf("failed to read attachments dir: %w", err)
	}

	result := make([]*models.PickupAttachment, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		original := e.Name()
		if parts := strings.SplitN(original, "_", 2); len(parts) == 2 {
			original = parts[1]
		}
		result = append(result, &models.PickupAttachment{
			PickupID:  id,
			Name:      e.Name(),
			FileName:  original,
			Size:      info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// AttachmentPath resolves a stored attachment name to its path on disk
func (s *pickupService) AttachmentPath(actor Actor, id uint, name string) (string, error) {
	if _, err := s.load(actor, id); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid attachment name", ErrInvalidInput)
	}

	path := filepath.Join(s.attachmentDir(id), name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}
