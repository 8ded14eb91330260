package calendar

import (
	"net/url"
	"strings"
)

// UnknownPlatform is what the backend reports when it could not tell
const UnknownPlatform = "Unknown"

var knownPlatforms = []struct {
	marker string
	name   string
}{
	{"zoom.us", "Zoom"},
	{"teams.microsoft", "Microsoft Teams"},
	{"meet.google", "Google Meet"},
	{"webex.com", "Webex"},
	{"gotomeeting", "GoToMeeting"},
}

// DetectPlatform names the conferencing platform a join link points at
func DetectPlatform(link string) string {
	lower := strings.ToLower(link)
	if u, err := url.Parse(lower); err == nil && u.Host != "" {
		lower = u.Host + u.Path
	}
	for _, p := range knownPlatforms {
		if strings.Contains(lower, p.marker) {
			return p.name
		}
	}
	return UnknownPlatform
}

// ResolvePlatform keeps a platform label the backend already filled in and
// otherwise derives one from the link.
func ResolvePlatform(platform, link string) string {
	if platform != "" && !strings.EqualFold(platform, UnknownPlatform) {
		return platform
	}
	if link == "" {
		return UnknownPlatform
	}
	return DetectPlatform(link)
}
