// Package blog holds the post list logic shared by the server and the
// static builder.
package blog

import (
	"fmt"
	"time"

	"github.com/nDmitry/spacetraveling/internal/app"
	"github.com/nDmitry/spacetraveling/internal/entity"
)

// Abbreviated pt-BR month names.
var monthsPtBR = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Layouts accepted for publication dates. The content API uses a numeric
// zone offset without a colon.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// ToDisplay maps remote posts to the display shape, keeping their order.
// Posts without a valid publication date get a zero CreatedAt.
func ToDisplay(posts []entity.Post) []entity.DisplayPost {
	result := make([]entity.DisplayPost, 0, len(posts))

	for _, p := range posts {
		dp := entity.DisplayPost{
			Slug:     p.UID,
			Title:    p.Data.Title,
			Subtitle: p.Data.Subtitle,
			Author:   p.Data.Author,
		}

		if p.FirstPublicationDate != nil && *p.FirstPublicationDate != "" {
			createdAt, err := ParsePublicationDate(*p.FirstPublicationDate)

			if err != nil {
				app.Logger().Warn("Invalid publication date",
					"slug", p.UID,
					"date", *p.FirstPublicationDate,
					"error", err)
			} else {
				dp.CreatedAt = createdAt
			}
		}

		result = append(result, dp)
	}

	return result
}

// ParsePublicationDate parses an ISO-8601 timestamp as sent by the content API.
func ParsePublicationDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format %q", s)
}

// FormatDate formats t as "15 mar 2023" in loc. The zero time formats as
// an empty string.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}

	if loc != nil {
		t = t.In(loc)
	}

	return fmt.Sprintf("%d %s %d", t.Day(), monthsPtBR[t.Month()-1], t.Year())
}
