package service

import (
	"path/filepath"
	"strings"
)

// contentTypes maps file extensions to MIME types for download responses.
// The set covers what the portal actually stores: office documents, images,
// archives, and backup dumps.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".txt":  "text/plain",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".sql":  "application/sql",
}

// fallbackContentType is used for unknown extensions.
const fallbackContentType = "application/octet-stream"

// ContentTypeFor returns the MIME type for a file name based on its
// extension, falling back to a generic binary type.
func ContentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return fallbackContentType
}
