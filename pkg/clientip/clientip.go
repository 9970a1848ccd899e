package clientip

import (
	"net"
	"net/http"
	"strings"
)

// GetIP returns the normalized client address, or "" when none is valid.
func GetIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			for ip := range strings.SplitSeq(forwarded, ",") {
				if parsed := parseIP(ip); parsed != "" {
					return parsed
				}
			}
		}
		if parsed := parseIP(r.Header.Get("X-Real-IP")); parsed != "" {
			return parsed
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
