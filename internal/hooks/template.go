// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package hooks

import (
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/hookbridge/internal/models"
)

const (
	// timestampLayout matches the render-time {{TimeStamp}} format.
	timestampLayout = "2006-01-02 15:04:05.000"
	// dateLayout formats item premiere/added dates.
	dateLayout = "2006-01-02 15:04:05"
)

// RenderContext is the read-only event snapshot a single render call
// consumes. It never outlives the call.
type RenderContext struct {
	Action   Action
	Server   models.ServerInfo
	Item     *models.MediaItem
	ItemType ContentType

	// Session is set for playback events only. Session placeholder tokens
	// in a template are substituted only when a session is present.
	Session *models.SessionSnapshot

	// PositionTicks is the position carried on the raw event, preferred
	// over the session's last known position when both exist.
	PositionTicks *int64
}

// Renderer performs literal {{Placeholder}} substitution on hook templates.
// Only recognized tokens are replaced; anything else passes through
// unchanged. Rendering is total over a well-formed context: absent strings
// substitute as empty, absent numerics as "0".
type Renderer struct {
	now func() time.Time
}

// NewRenderer creates a renderer using the wall clock for {{TimeStamp}}.
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// Render substitutes the context into the template. The second return is
// false when rendering is skipped: a Paused or Resumed action whose session
// no longer has a now-playing item belongs to a session that already ended,
// and no notification is produced for it.
func (r *Renderer) Render(tmpl string, ctx RenderContext, quote bool) (string, bool) {
	if (ctx.Action == ActionPaused || ctx.Action == ActionResumed) &&
		(ctx.Session == nil || ctx.Session.NowPlaying == nil) {
		return "", false
	}

	v := valueFormatter{quote: quote}
	item := ctx.Item

	pairs := []string{
		"{{Event}}", v.str(string(ctx.Action)),
		"{{ServerID}}", v.str(ctx.Server.ID),
		"{{ServerName}}", v.str(ctx.Server.Name),
		"{{TimeStamp}}", v.str(r.now().Format(timestampLayout)),
		"{{ItemType}}", v.str(string(ctx.ItemType)),
		"{{ItemName}}", v.str(itemName(item)),
		"{{ItemNameParent}}", v.str(parentName(item)),
		"{{ItemNameGrandparent}}", v.str(grandparentName(item)),
		"{{ItemID}}", v.str(itemID(item)),
		"{{ItemRunTimeTicks}}", v.int64p(runTimeTicks(item)),
		"{{ItemIndex}}", v.intp(indexNumber(item)),
		"{{ItemParentIndex}}", v.intp(parentIndex(item)),
		"{{ItemCriticRating}}", v.floatp(criticRating(item)),
		"{{ItemCommunityRating}}", v.floatp(communityRating(item)),
		"{{ItemPremiereDate}}", v.date(premiereDate(item)),
		"{{ItemDateAdded}}", v.date(dateAdded(item)),
		"{{ItemYear}}", v.intp(productionYear(item)),
		"{{ItemBitrate}}", v.int64p(bitrate(item)),
		"{{ItemGenre}}", v.str(genreCSV(item)),
	}

	if s := ctx.Session; s != nil {
		position := ctx.PositionTicks
		if position == nil {
			position = s.PositionTicks
		}
		pairs = append(pairs,
			"{{UserID}}", v.str(s.UserID),
			"{{UserName}}", v.str(s.UserName),
			"{{AppName}}", v.str(s.AppName),
			"{{DeviceID}}", v.str(s.DeviceID),
			"{{DeviceName}}", v.str(s.DeviceName),
			"{{DeviceIP}}", v.str(s.RemoteEndpoint),
			"{{SessionID}}", v.str(s.SessionID),
			"{{SessionPlaybackPositionTicks}}", v.int64p(position),
		)
	}

	return strings.NewReplacer(pairs...).Replace(tmpl), true
}

// valueFormatter renders context values as template substitutions. With
// quote enabled, string-kind values are wrapped in double quotes so bare
// tokens slot into JSON templates; numeric values are never quoted.
type valueFormatter struct {
	quote bool
}

func (v valueFormatter) str(s string) string {
	if v.quote {
		return strconv.Quote(s)
	}
	return s
}

func (v valueFormatter) date(t *time.Time) string {
	if t == nil {
		return v.str("")
	}
	return v.str(t.Format(dateLayout))
}

func (v valueFormatter) intp(n *int) string {
	if n == nil {
		return "0"
	}
	return strconv.Itoa(*n)
}

func (v valueFormatter) int64p(n *int64) string {
	if n == nil {
		return "0"
	}
	return strconv.FormatInt(*n, 10)
}

func (v valueFormatter) floatp(f *float64) string {
	if f == nil {
		return "0"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// Nil-safe item field accessors. A missing item renders every item token
// as its zero sentinel rather than failing the render.

func itemName(i *models.MediaItem) string {
	if i == nil {
		return ""
	}
	return i.Name
}

func parentName(i *models.MediaItem) string {
	if i == nil {
		return ""
	}
	return i.ParentName
}

func grandparentName(i *models.MediaItem) string {
	if i == nil {
		return ""
	}
	return i.GrandparentName
}

func itemID(i *models.MediaItem) string {
	if i == nil {
		return ""
	}
	return i.ID
}

func runTimeTicks(i *models.MediaItem) *int64 {
	if i == nil {
		return nil
	}
	return i.RunTimeTicks
}

func indexNumber(i *models.MediaItem) *int {
	if i == nil {
		return nil
	}
	return i.IndexNumber
}

func parentIndex(i *models.MediaItem) *int {
	if i == nil {
		return nil
	}
	return i.ParentIndex
}

func criticRating(i *models.MediaItem) *float64 {
	if i == nil {
		return nil
	}
	return i.CriticRating
}

func communityRating(i *models.MediaItem) *float64 {
	if i == nil {
		return nil
	}
	return i.CommunityRating
}

func premiereDate(i *models.MediaItem) *time.Time {
	if i == nil {
		return nil
	}
	return i.PremiereDate
}

func dateAdded(i *models.MediaItem) *time.Time {
	if i == nil {
		return nil
	}
	return i.DateAdded
}

func productionYear(i *models.MediaItem) *int {
	if i == nil {
		return nil
	}
	return i.ProductionYear
}

func bitrate(i *models.MediaItem) *int64 {
	if i == nil {
		return nil
	}
	return i.Bitrate
}

func genreCSV(i *models.MediaItem) string {
	if i == nil {
		return ""
	}
	return strings.Join(i.Genres, ",")
}
