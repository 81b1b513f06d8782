package processor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// ResultPath is the artifact path for an archive named name.
func ResultPath(dir, name string) string {
	return filepath.Join(dir, name+"_results.txt")
}

// WriteResults writes one payload per line to the archive's artifact. The
// file is assembled next to its destination and renamed into place.
func WriteResults(dir, name string, payloads []string) (string, error) {
	dest := ResultPath(dir, name)
	if err := writeLines(dir, dest, payloads); err != nil {
		return dest, fmt.Errorf("%w: %s: %v", ErrOutputWrite, dest, err)
	}
	return dest, nil
}

func writeLines(dir, dest string, lines []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "epsdm-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	w := bufio.NewWriter(tmpFile)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			_ = tmpFile.Close()
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			_ = tmpFile.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpFile.Name(), 0o644); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), dest)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}
