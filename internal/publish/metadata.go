package publish

import (
	"strings"

	"github.com/your-org/historyshorts/internal/event"
	"github.com/your-org/historyshorts/pkg/config"
)

// Video is the platform-ready upload request: the rendered file plus the
// composed listing metadata.
type Video struct {
	FilePath        string // absolute path to the rendered video
	Title           string
	Description     string
	Tags            []string
	CategoryID      string
	ChannelID       string
	PrivacyStatus   string
	DefaultLanguage string
	MadeForKids     bool
}

// BuildVideo composes the upload metadata for an event: configured default
// tags are appended, all tags are normalized for hashtag use, and the
// normalized tags are suffixed to the title as #hashtags.
func BuildVideo(ev *event.Event, filePath string, cfg config.YouTubeConfig) Video {
	tags := normalizeTags(append(append([]string{}, ev.Tags...), cfg.DefaultTags...))

	title := strings.TrimSpace(cfg.TitlePrefix + " " + ev.Title)
	if hashtags := joinHashtags(tags); hashtags != "" {
		title += " " + hashtags
	}

	description := strings.TrimSpace(ev.Description + " " + cfg.DescriptionSuffix)

	return Video{
		FilePath:        filePath,
		Title:           title,
		Description:     description,
		Tags:            tags,
		CategoryID:      cfg.CategoryID,
		ChannelID:       cfg.ChannelID,
		PrivacyStatus:   cfg.PrivacyStatus,
		DefaultLanguage: cfg.DefaultLanguage,
		MadeForKids:     cfg.MadeForKids,
	}
}

// normalizeTags lowercases tags, strips internal whitespace, and removes
// duplicates and empties while preserving order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.Join(strings.Fields(tag), ""))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func joinHashtags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, tag := range tags {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('#')
		sb.WriteString(tag)
	}
	return sb.String()
}
