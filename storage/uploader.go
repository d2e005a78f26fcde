package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores archive artefacts in an object store.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ArchiveKey is the object key of one artefact of a tournament archive.
func ArchiveKey(tournamentID, name string) string {
	return "archive/" + tournamentID + "/" + name
}
