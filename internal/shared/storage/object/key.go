package object

import (
	"errors"
	"fmt"
	"strings"
)

// ResumeKey builds the storage key "{user}/{shortID}-{fileName}". Path
// separators inside either segment are replaced so a key always has exactly
// two segments.
func ResumeKey(userID, shortID, fileName string) (string, error) {
	user, err := sanitizeSegment(userID)
	if err != nil {
		return "", fmt.Errorf("user id: %w", err)
	}
	name, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(shortID) == "" {
		return "", errors.New("short id required")
	}
	return user + "/" + shortID + "-" + name, nil
}

// ErrInvalidName is returned for names that are empty or only dots once
// separators are replaced.
var ErrInvalidName = errors.New("invalid file name")

// SanitizeFileName replaces path separators. Dots elsewhere in the name are
// kept, so "Jane..Doe.pdf" is stored as given.
func SanitizeFileName(name string) (string, error) {
	return sanitizeSegment(name)
}

func sanitizeSegment(s string) (string, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" || s == "." || s == ".." {
		return "", ErrInvalidName
	}
	return s, nil
}
