package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	// Copy defaultPath -> userPath. If there is no packaged default, start
	// from built-in defaults so first run still works.
	src, err := os.Open(defaultPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return userPath, SaveAtomic(userPath, Default())
		}
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// Default is what a fresh install runs with before anyone touches config.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38520
	cfg.App.DataDir = "."
	cfg.Crelate.Endpoint = "https://app.crelate.com/api3"
	cfg.Import.Frequency = "daily"
	cfg.Import.PageSize = 25
	cfg.Submission.Mode = "local"
	cfg.Submission.MaxResumeMB = 5
	cfg.Submission.AllowedResumeTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
	cfg.Download.ExpiryHours = 24
	cfg.Display.PerPage = 10
	cfg.Display.ShowSalary = true
	cfg.Display.ShowLocation = true
	cfg.Display.ShowDate = true
	return cfg
}
