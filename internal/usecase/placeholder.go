package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/solvurder/backend/internal/domain"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// GeneratePlaceholder synthesizes a self-contained SVG standing in for real
// imagery: neutral background, a marker at the center, the unavailability
// message and the formatted coordinates. It is the terminal fallback of the
// whole subsystem and therefore has no failure path.
func GeneratePlaceholder(lat, lon float64, width, height int, reason string) *domain.SatelliteImage {
	cx := width / 2
	cy := height / 2

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#e8eef2"/>`, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="none" stroke="#b0bec5" stroke-width="2"/>`, width, height)

	// Center marker: pin circle with a dot.
	fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="14" fill="#90a4ae" stroke="#546e7a" stroke-width="2"/>`, cx, cy)
	fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="4" fill="#eceff1"/>`, cx, cy)

	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="16" fill="#37474f">Satellittbilde midlertidig utilgjengelig</text>`, cx, cy+44)
	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="13" fill="#546e7a">%.5f°N, %.5f°E</text>`, cx, cy+66, lat, lon)
	if reason != "" {
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="11" fill="#78909c">%s</text>`, cx, cy+86, xmlEscaper.Replace(reason))
	}
	b.WriteString(`</svg>`)

	return &domain.SatelliteImage{
		Payload:     []byte(b.String()),
		ContentType: "image/svg+xml",
		Source:      domain.SourcePlaceholder,
		FetchedAt:   time.Now(),
	}
}
