package submit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// saveResume writes the upload under the private resume dir with a generated
// token name plus the original extension. Original filenames never touch the
// filesystem; they stay in the database column only.
func (p *Pipeline) saveResume(r *ResumeFile) (string, error) {
	if p.ResumeDir == "" {
		return "", fmt.Errorf("resume dir not configured")
	}
	if err := os.MkdirAll(p.ResumeDir, 0o700); err != nil {
		return "", fmt.Errorf("resume dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(r.Name))
	if len(ext) > 10 {
		ext = ""
	}
	path := filepath.Join(p.ResumeDir, uuid.NewString()+ext)

	if err := os.WriteFile(path, r.Data, 0o600); err != nil {
		return "", fmt.Errorf("write resume: %w", err)
	}
	return path, nil
}
