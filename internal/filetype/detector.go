// Package filetype verifies uploads by magic bytes, not filename.
package filetype

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// FileTypeInfo contains detected file type information.
type FileTypeInfo struct {
	MIMEType    string
	Extension   string
	IsPDF       bool
	IsText      bool
	Supported   bool
	Description string
}

// Detector handles file type detection using magic bytes.
type Detector struct{}

// New creates a new file type detector.
func New() *Detector {
	return &Detector{}
}

// Detect sniffs the actual file type of the file at path.
func (d *Detector) Detect(path string) (*FileTypeInfo, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}

	info := &FileTypeInfo{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
	}
	d.classify(info)

	log.Debug().Str("mime", info.MIMEType).Str("ext", info.Extension).Str("file", path).Bool("supported", info.Supported).Msg("detected file type")
	return info, nil
}

// DetectBytes sniffs an in-memory upload before it touches disk.
func (d *Detector) DetectBytes(data []byte) *FileTypeInfo {
	mtype := mimetype.Detect(data)
	info := &FileTypeInfo{
		MIMEType:  mtype.String(),
		Extension: mtype.Extension(),
	}
	d.classify(info)
	return info
}

// classify marks which uploads the tools accept. The page tools only work on
// PDFs; JSON and CSV are accepted for the data-format tools.
func (d *Detector) classify(info *FileTypeInfo) {
	mimeType := info.MIMEType

	switch {
	case mimeType == "application/pdf":
		info.IsPDF = true
		info.Supported = true
		info.Description = "PDF document"

	case mimeType == "application/json":
		info.IsText = true
		info.Supported = true
		info.Description = "JSON document"

	case mimeType == "text/csv", strings.HasPrefix(mimeType, "text/csv;"):
		info.IsText = true
		info.Supported = true
		info.Description = "CSV data"

	case strings.HasPrefix(mimeType, "text/plain"):
		info.IsText = true
		info.Supported = true
		info.Description = "Plain text file"

	default:
		info.Supported = false
		info.Description = fmt.Sprintf("Unsupported file type: %s", mimeType)
	}
}
