package entity

import "strings"

// Device types
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

var botMarkers = []string{"bot", "crawler", "spider", "slurp", "curl/", "wget/", "python-requests", "headless"}

// DeviceType classifies a User-Agent header
func DeviceType(ua string) string {
	l := strings.ToLower(ua)
	switch {
	case l == "":
		return ""
	case containsAny(l, botMarkers):
		return DeviceBot
	case strings.Contains(l, "ipad"), strings.Contains(l, "tablet"),
		strings.Contains(l, "android") && !strings.Contains(l, "mobile"):
		return DeviceTablet
	case strings.Contains(l, "mobi"), strings.Contains(l, "iphone"), strings.Contains(l, "ipod"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// Browser names the browser family of a User-Agent header.
// Order matters: Edge and Opera also announce Chrome, Chrome also announces Safari.
func Browser(ua string) string {
	switch {
	case ua == "":
		return ""
	case strings.Contains(ua, "Edg/"), strings.Contains(ua, "Edge/"):
		return "Edge"
	case strings.Contains(ua, "OPR/"), strings.Contains(ua, "Opera"):
		return "Opera"
	case strings.Contains(ua, "SamsungBrowser/"):
		return "Samsung Internet"
	case strings.Contains(ua, "Firefox/"), strings.Contains(ua, "FxiOS/"):
		return "Firefox"
	case strings.Contains(ua, "Chrome/"), strings.Contains(ua, "CriOS/"):
		return "Chrome"
	case strings.Contains(ua, "Safari/"):
		return "Safari"
	default:
		return "Other"
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
