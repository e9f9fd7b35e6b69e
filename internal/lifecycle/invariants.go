package lifecycle

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"

	"github.com/microcosm-cc/bluemonday"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	textPolicy  = bluemonday.StrictPolicy()
	serviceArea = buildServiceArea(config.ServiceArea)
)

func buildServiceArea(vertices [][2]float64) orb.Polygon {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, orb.Point{v[0], v[1]})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// ParseID converts a transport value into an entity id.
// Non-numeric and non-positive values are validation errors, never not-found.
func ParseID(field, raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 || n > math.MaxUint32 {
		return 0, apperr.Validation(field, "%q is not a positive integer id", raw)
	}
	return uint(n), nil
}

func checkID(field string, id uint) error {
	if id == 0 {
		return apperr.Validation(field, "must be a positive integer")
	}
	return nil
}

// cleanText trims and strips markup; the result must be non-empty and at most max runes.
func cleanText(field, raw string, max int) (string, error) {
	clean := strings.TrimSpace(textPolicy.Sanitize(strings.TrimSpace(raw)))
	if clean == "" {
		return "", apperr.Validation(field, "is required")
	}
	if max > 0 && utf8.RuneCountInString(clean) > max {
		return "", apperr.Validation(field, "must be at most %d characters", max)
	}
	return clean, nil
}

// checkRejectionReason enforces "reason present iff Rejected" for a review decision
// and returns the reason to store.
func checkRejectionReason(decision models.ReportStatus, reason string) (string, error) {
	if decision != models.StatusRejected {
		return "", nil
	}
	return cleanText("rejectionReason", reason, config.MaxRejectionChars)
}

func checkDecision(decision models.ReportStatus) error {
	if decision != models.StatusAssigned && decision != models.StatusRejected {
		return apperr.Validation("decision", "must be %s or %s, got %q", models.StatusAssigned, models.StatusRejected, decision)
	}
	return nil
}

// checkImages requires 1-3 absolute http(s) URIs and returns them trimmed.
func checkImages(uris []string) ([]string, error) {
	if len(uris) < config.MinReportImages || len(uris) > config.MaxReportImages {
		return nil, apperr.Validation("images", "between %d and %d images are required, got %d",
			config.MinReportImages, config.MaxReportImages, len(uris))
	}

	out := make([]string, len(uris))
	for i, raw := range uris {
		uri := strings.TrimSpace(raw)
		u, err := url.Parse(uri)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperr.Validation("images", "image %d is not an absolute http(s) URI", i+1)
		}
		out[i] = uri
	}
	return out, nil
}

// checkServiceArea requires the point to fall inside the municipal boundary.
func checkServiceArea(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return apperr.Validation("location", "(%v, %v) is not a valid coordinate", lat, lon)
	}
	if !planar.PolygonContains(serviceArea, orb.Point{lon, lat}) {
		return apperr.Validation("location", "(%v, %v) is outside the service area", lat, lon)
	}
	return nil
}

func checkStatus(field string, s models.ReportStatus) error {
	if !s.Valid() {
		return apperr.Validation(field, "unknown status %q", s)
	}
	return nil
}
