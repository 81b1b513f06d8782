package processor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// maxEntrySize guards against zip bombs posing as EPS labels.
const maxEntrySize = 64 << 20

// listArchives returns the zip archives to process: root itself when it is
// a file, otherwise the .zip files directly inside it, sorted by name.
func listArchives(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			archives = append(archives, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(archives)
	return archives, nil
}

// archiveName strips directory and extension: "In/batch 7.zip" -> "batch 7".
func archiveName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isEPS(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".eps")
}

// epsJobs lists the EPS entries of an archive in directory order.
func epsJobs(archive string, files []*zip.File) []Job {
	var jobs []Job
	for _, f := range files {
		if f.FileInfo().IsDir() || !isEPS(f.Name) {
			continue
		}
		jobs = append(jobs, Job{Archive: archive, Name: f.Name, Index: len(jobs), file: f})
	}
	return jobs
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryRead, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryRead, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("%w: entry larger than %d bytes", ErrEntryRead, maxEntrySize)
	}
	return data, nil
}
