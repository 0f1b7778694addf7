package model

import (
	"path/filepath"
	"strings"
)

// MimeTypeOctetStream is used for any filename without a known extension
const MimeTypeOctetStream = "application/octet-stream"

// attachment extension table, part of the document contract
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ods":  "application/vnd.oasis.opendocument.spreadsheet",
	".xml":  "application/xml",
}

// MimeTypeFromFilename derives the attachment MIME type from the filename extension
func MimeTypeFromFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return MimeTypeOctetStream
}

// MimeTypeExtensions returns the extensions the attachment table knows about
func MimeTypeExtensions() map[string]string {
	out := make(map[string]string, len(mimeTypes))
	for k, v := range mimeTypes {
		out[k] = v
	}
	return out
}
