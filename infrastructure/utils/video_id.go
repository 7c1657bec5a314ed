package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"comment-insight/domain/model"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|\/)([0-9A-Za-z_-]{11}).*`),
	regexp.MustCompile(`(?:embed\/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:v\/|\/u\/\w\/|embed\/|watch\?v=|\&v=)([^#\&\?]*)`),
}

// ExtractVideoID pulls the video id out of the common YouTube URL shapes.
// It returns model.ErrInvalidInput when nothing matches.
func ExtractVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("video url is required: %w", model.ErrInvalidInput)
	}

	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) > 1 && m[1] != "" {
			return m[1], nil
		}
	}

	parsed, err := url.Parse(rawURL)
	if err == nil {
		host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
		switch {
		case host == "youtu.be":
			if id := strings.Trim(parsed.Path, "/"); id != "" {
				return id, nil
			}
		case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
			if id := parsed.Query().Get("v"); id != "" {
				return id, nil
			}
		}
	}

	return "", fmt.Errorf("could not extract video id from %q: %w", rawURL, model.ErrInvalidInput)
}
