package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
)

// sensitiveHeaderMarkers are substrings of header names never copied into the usage log.
var sensitiveHeaderMarkers = []string{"cookie", "authorization", "oidc-token", "signature"}

// consentFromRequest reads the consent cookie. ok is false when the visitor
// has not decided yet or the value is unknown.
func consentFromRequest(r *http.Request, cookieName string) (domain.ConsentLevel, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		v = c.Value
	}
	return domain.ParseConsent(v)
}

// clientIP picks the visitor address from proxy headers:
// cf-connecting-ip, then the first x-forwarded-for hop, then x-real-ip,
// then the first x-vercel-forwarded-for hop.
func clientIP(h http.Header) string {
	if v := strings.TrimSpace(h.Get("Cf-Connecting-Ip")); v != "" {
		return v
	}
	if v := h.Get("X-Forwarded-For"); v != "" {
		return firstHop(v)
	}
	if v := strings.TrimSpace(h.Get("X-Real-Ip")); v != "" {
		return v
	}
	if v := h.Get("X-Vercel-Forwarded-For"); v != "" {
		return firstHop(v)
	}
	return ""
}

func firstHop(list string) string {
	first, _, _ := strings.Cut(list, ",")
	return strings.TrimSpace(first)
}

// requestMetadata collects what the usage log stores about the caller.
// gps, when present, takes precedence over IP geolocation.
func requestMetadata(r *http.Request, gps *domain.GPSLocation) domain.RequestMetadata {
	h := r.Header

	country := h.Get("Cf-Ipcountry")
	if country == "" {
		country = h.Get("X-Vercel-Ip-Country")
	}
	region := h.Get("X-Vercel-Ip-Country-Region")
	city := h.Get("X-Vercel-Ip-City")
	ipLat := h.Get("X-Vercel-Ip-Latitude")
	ipLong := h.Get("X-Vercel-Ip-Longitude")

	var parts []string
	for _, p := range []string{city, region, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	headers := make(map[string]string, len(h)+8)
	for key, values := range h {
		lower := strings.ToLower(key)
		if isSensitiveHeader(lower) {
			continue
		}
		headers[lower] = strings.Join(values, ", ")
	}

	if ipLat != "" && ipLong != "" {
		headers["_ip_geo_latitude"] = ipLat
		headers["_ip_geo_longitude"] = ipLong
	}
	if gps != nil {
		headers["_gps_latitude"] = formatFloat(gps.Latitude)
		headers["_gps_longitude"] = formatFloat(gps.Longitude)
		headers["_gps_accuracy_meters"] = formatFloat(gps.Accuracy)
		if gps.Altitude != nil {
			headers["_gps_altitude"] = formatFloat(*gps.Altitude)
		}
		if gps.Speed != nil {
			headers["_gps_speed"] = formatFloat(*gps.Speed)
		}
		if gps.Heading != nil {
			headers["_gps_heading"] = formatFloat(*gps.Heading)
		}
	}
	if v := h.Get("X-Vercel-Ip-Timezone"); v != "" {
		headers["_ip_timezone"] = v
	}
	if v := h.Get("X-Vercel-Ip-Continent"); v != "" {
		headers["_ip_continent"] = v
	}
	if v := h.Get("X-Vercel-Ip-As-Number"); v != "" {
		headers["_ip_as_number"] = v
	}

	meta := domain.RequestMetadata{
		IP:        clientIP(h),
		UserAgent: h.Get("User-Agent"),
		Referer:   h.Get("Referer"),
		Location:  strings.Join(parts, ", "),
		Headers:   headers,
	}
	if gps != nil {
		lat, long := gps.Latitude, gps.Longitude
		meta.Latitude, meta.Longitude = &lat, &long
	} else {
		meta.Latitude = parseCoordinate(ipLat)
		meta.Longitude = parseCoordinate(ipLong)
	}
	return meta
}

func isSensitiveHeader(lower string) bool {
	for _, marker := range sensitiveHeaderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseCoordinate(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
