package port

import "context"

type VideoStorage interface {
	DownloadVideo(ctx context.Context, objectKey string, destPath string) error
}
