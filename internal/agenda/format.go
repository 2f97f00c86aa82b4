// Package agenda turns agenda data into what viewers display: clock times,
// dates, image links and the public page model.
package agenda

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(:\d{2})?$`)

// FormatTime renders a slot time as a 12-hour clock, e.g. "13:30" as "1:30 PM".
// Full timestamps are shown in their own offset. Anything else is returned unchanged.
func FormatTime(s string) string {
	if s == "" {
		return ""
	}
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%d:%s %s", hour12(h), m[2], meridiem(h))
	}
	if t, ok := parseTimestamp(s); ok {
		return t.Format("3:04 PM")
	}
	return s
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func meridiem(h int) string {
	if h >= 12 {
		return "PM"
	}
	return "AM"
}

// FormatDate renders a calendar date as "Dec 25, 2025".
func FormatDate(s string) string {
	return formatDate(s, "Jan 2, 2006")
}

// FormatShortDate renders a calendar date as "Dec 25", used on day tabs.
func FormatShortDate(s string) string {
	return formatDate(s, "Jan 2")
}

func formatDate(s, layout string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.Format(layout)
	}
	if t, ok := parseTimestamp(s); ok {
		return t.Format(layout)
	}
	return s
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var driveIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/d/([-\w]{25,})`),
	regexp.MustCompile(`[?&]id=([-\w]{25,})`),
	regexp.MustCompile(`/file/d/([-\w]{25,})`),
}

// DriveDirectLink rewrites a Google Drive share link to the thumbnail endpoint,
// which serves the image without the download interstitial. Other links pass through.
func DriveDirectLink(url string) string {
	if url == "" {
		return ""
	}
	if !strings.Contains(url, "drive.google.com") && !strings.Contains(url, "docs.google.com") {
		return url
	}
	for _, p := range driveIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return "https://drive.google.com/thumbnail?id=" + m[1] + "&sz=w1500"
		}
	}
	return url
}

// ShareURL is the public link of an event's agenda.
func ShareURL(baseURL, eventID string) string {
	return strings.TrimRight(baseURL, "/") + "/#/agenda/" + eventID
}

// TimeOptions lists the half-hour start and end times offered by the slot form.
func TimeOptions() []string {
	out := make([]string, 0, 48)
	for h := 0; h < 24; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return out
}
