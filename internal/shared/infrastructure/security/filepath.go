// Package security validates user-supplied paths before Priora reads, writes or executes them.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyPath is returned for an empty path.
	ErrEmptyPath = errors.New("path cannot be empty")
	// ErrForbiddenChar is returned for paths carrying shell metacharacters.
	ErrForbiddenChar = errors.New("path contains forbidden character")
	// ErrRelativeBinary is returned when an executable path is not absolute.
	ErrRelativeBinary = errors.New("binary path must be absolute")
)

// dangerousChars are shell metacharacters rejected in every path.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// binaryChars are additionally rejected in paths that are executed.
var binaryChars = []string{"\\", "'", "\""}

func checkChars(path string, chars []string) error {
	for _, char := range chars {
		if strings.Contains(path, char) {
			return fmt.Errorf("%w %q: %s", ErrForbiddenChar, char, path)
		}
	}
	return nil
}

// resolve resolves symlinks of existing paths and keeps missing ones as given.
func resolve(cleanPath string) (string, error) {
	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return resolved, nil
}

// ValidateFilePath cleans path, makes it absolute against the working
// directory and resolves symlinks. The file need not exist.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if err := checkChars(path, dangerousChars); err != nil {
		return "", err
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return resolve(cleanPath)
}

// ValidateBinaryPath validates the path of an executable to launch.
// Relative paths are rejected so the working directory cannot pick the binary.
func ValidateBinaryPath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("%w: %s", ErrRelativeBinary, path)
	}
	if err := checkChars(cleanPath, append(dangerousChars, binaryChars...)); err != nil {
		return "", err
	}
	return resolve(cleanPath)
}

// SafeReadFile reads a file after validating the path.
func SafeReadFile(path string) ([]byte, error) {
	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is validated above
	return os.ReadFile(cleanPath)
}

// SafeWriteFile writes data to a validated path, refusing to write into a directory.
func SafeWriteFile(path string, data []byte) (string, error) {
	cleanPath, err := ValidateFilePath(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return "", fmt.Errorf("%s is a directory", cleanPath)
	}
	// #nosec G306 - exports are user documents
	if err := os.WriteFile(cleanPath, data, 0o644); err != nil {
		return "", err
	}
	return cleanPath, nil
}
