// Package media turns the media links attached to words into something a
// player can embed.
package media

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// maxOffset bounds a start offset, in seconds
const maxOffset = 24 * 60 * 60

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	offsetPattern  = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)
)

// path prefixes followed by the video id
var idPrefixes = map[string]bool{
	"embed":  true,
	"shorts": true,
	"v":      true,
	"live":   true,
	"e":      true,
}

// Video is an embeddable YouTube video with an optional start offset
type Video struct {
	ID    string `json:"id"`
	Start int    `json:"start,omitempty"`
}

// ParseVideo extracts the 11-character video id and the optional t= or
// start= offset (in seconds) from a YouTube link. ok is false when no id
// can be found, in which case nothing should be played.
func ParseVideo(raw string) (video Video, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Video{}, false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Video{}, false
	}

	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) >= 2 && idPrefixes[segments[0]]:
			id = segments[1]
		}
	default:
		return Video{}, false
	}

	if !videoIDPattern.MatchString(id) {
		return Video{}, false
	}

	video = Video{ID: id}
	if start, ok := parseOffset(startParam(u)); ok {
		video.Start = start
	}
	return video, true
}

// EmbedURL returns the autoplaying embed URL of the video
func (v Video) EmbedURL() string {
	embed := "https://www.youtube.com/embed/" + v.ID + "?autoplay=1"
	if v.Start > 0 {
		embed += "&start=" + strconv.Itoa(v.Start)
	}
	return embed
}

func startParam(u *url.URL) string {
	q := u.Query()
	if t := q.Get("t"); t != "" {
		return t
	}
	if s := q.Get("start"); s != "" {
		return s
	}
	if strings.HasPrefix(u.Fragment, "t=") {
		return strings.TrimPrefix(u.Fragment, "t=")
	}
	return ""
}

// parseOffset accepts plain seconds ("90") or h/m/s notation ("1m30s")
func parseOffset(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0 && n <= maxOffset
	}

	m := offsetPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}

	total := 0
	for i, unit := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n > maxOffset/unit {
			return 0, false
		}
		total += n * unit
	}
	return total, total <= maxOffset
}
