package classify

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// FileRecord is an immutable snapshot of the filesystem metadata the
// classifier operates on. It carries no identity beyond the observation
// that produced it; a file rewritten after snapshotting is re-observed.
type FileRecord struct {
	// Path is the absolute source path at observation time.
	Path string
	// Name is the base name without extension, case-folded.
	Name string
	// Extension includes the leading dot and is case-folded. Empty when
	// the file has no extension.
	Extension string
	// SizeBytes is the observed size. Zero when the size was unreadable.
	SizeBytes int64
	// ModifiedAt is the observed modification time.
	ModifiedAt time.Time
}

// NewFileRecord stats path and snapshots its metadata. An unreadable size
// is recorded as zero rather than failing; only a missing file errors.
func NewFileRecord(path string) (FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRecord{}, err
	}
	return RecordFromInfo(path, info), nil
}

// RecordFromInfo builds a FileRecord from an already-obtained FileInfo.
func RecordFromInfo(path string, info fs.FileInfo) FileRecord {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	record := FileRecord{
		Path:      path,
		Name:      foldCaser.String(strings.TrimSuffix(base, ext)),
		Extension: foldCaser.String(ext),
	}
	if info != nil {
		record.SizeBytes = info.Size()
		record.ModifiedAt = info.ModTime()
	}
	return record
}

// BaseName reconstructs the on-disk base name the record was built from,
// in its folded form.
func (r FileRecord) BaseName() string {
	return r.Name + r.Extension
}
