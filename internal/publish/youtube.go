package publish

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Uploader pushes a rendered video to the hosting platform and returns the
// platform-assigned video id.
type Uploader interface {
	Upload(ctx context.Context, video Video) (string, error)
}

// YouTubeUploader uploads through the YouTube Data API v3.
type YouTubeUploader struct {
	auth   *Authenticator
	logger *zap.Logger
}

// NewYouTubeUploader constructs a YouTubeUploader.
func NewYouTubeUploader(auth *Authenticator, logger *zap.Logger) *YouTubeUploader {
	return &YouTubeUploader{auth: auth, logger: logger}
}

// Upload inserts the video with its snippet and status and streams the file
// as a resumable media upload.
func (u *YouTubeUploader) Upload(ctx context.Context, video Video) (string, error) {
	client, err := u.auth.Client(ctx)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("create youtube service: %w", err)
	}

	payload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:           video.Title,
			Description:     video.Description,
			Tags:            video.Tags,
			CategoryId:      video.CategoryID,
			ChannelId:       video.ChannelID,
			DefaultLanguage: video.DefaultLanguage,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           video.PrivacyStatus,
			MadeForKids:             video.MadeForKids,
			SelfDeclaredMadeForKids: video.MadeForKids,
		},
	}

	file, err := os.Open(video.FilePath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer file.Close()

	u.logger.Info("uploading video", zap.String("file", video.FilePath), zap.String("title", video.Title))

	response, err := service.Videos.
		Insert([]string{"snippet", "status"}, payload).
		Media(file).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("insert video: %w", err)
	}

	u.logger.Info("video uploaded", zap.String("video_id", response.Id))
	return response.Id, nil
}
