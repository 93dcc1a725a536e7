// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package hooks

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/hookbridge/internal/models"
)

func int64p(n int64) *int64       { return &n }
func intp(n int) *int             { return &n }
func floatp(f float64) *float64   { return &f }
func timep(t time.Time) *time.Time { return &t }

func fixedRenderer(at time.Time) *Renderer {
	r := NewRenderer()
	r.now = func() time.Time { return at }
	return r
}

func TestRenderRawSubstitution(t *testing.T) {
	r := NewRenderer()
	ctx := RenderContext{
		Action:   ActionAdded,
		Item:     &models.MediaItem{Name: "The Big Lebowski", Type: "Movie"},
		ItemType: ContentMovie,
	}

	got, ok := r.Render("{{Event}}:{{ItemName}}", ctx, false)
	if !ok {
		t.Fatal("render unexpectedly skipped")
	}
	if want := "Added:The Big Lebowski"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderQuotedValues(t *testing.T) {
	r := NewRenderer()
	ctx := RenderContext{
		Action:   ActionPlaying,
		Item:     &models.MediaItem{Name: "Heat", RunTimeTicks: int64p(102000000000)},
		ItemType: ContentMovie,
		Session:  &models.SessionSnapshot{DeviceID: "dev", NowPlaying: &models.MediaItem{Name: "Heat"}},
	}

	got, ok := r.Render(`{"event":{{Event}},"name":{{ItemName}},"ticks":{{ItemRunTimeTicks}}}`, ctx, true)
	if !ok {
		t.Fatal("render unexpectedly skipped")
	}
	want := `{"event":"Playing","name":"Heat","ticks":102000000000}`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderItemPlaceholders(t *testing.T) {
	premiere := time.Date(2014, 4, 6, 0, 0, 0, 0, time.UTC)
	added := time.Date(2026, 8, 30, 21, 15, 3, 0, time.UTC)
	item := &models.MediaItem{
		ID:              "itm-9",
		Name:            "The Mountain and the Viper",
		Type:            "Episode",
		ParentName:      "Season 4",
		GrandparentName: "Game of Thrones",
		RunTimeTicks:    int64p(31920000000),
		IndexNumber:     intp(8),
		ParentIndex:     intp(4),
		CriticRating:    floatp(97),
		CommunityRating: floatp(9.7),
		PremiereDate:    timep(premiere),
		DateAdded:       timep(added),
		ProductionYear:  intp(2014),
		Bitrate:         int64p(15600000),
		Genres:          []string{"Fantasy", "Drama"},
	}
	ctx := RenderContext{Action: ActionPlaying, Item: item, ItemType: ContentEpisode,
		Session: &models.SessionSnapshot{DeviceID: "dev", NowPlaying: item}}

	tests := []struct {
		token string
		want  string
	}{
		{"{{ItemID}}", "itm-9"},
		{"{{ItemName}}", "The Mountain and the Viper"},
		{"{{ItemNameParent}}", "Season 4"},
		{"{{ItemNameGrandparent}}", "Game of Thrones"},
		{"{{ItemType}}", "episode"},
		{"{{ItemRunTimeTicks}}", "31920000000"},
		{"{{ItemIndex}}", "8"},
		{"{{ItemParentIndex}}", "4"},
		{"{{ItemCriticRating}}", "97"},
		{"{{ItemCommunityRating}}", "9.7"},
		{"{{ItemPremiereDate}}", "2014-04-06 00:00:00"},
		{"{{ItemDateAdded}}", "2026-08-30 21:15:03"},
		{"{{ItemYear}}", "2014"},
		{"{{ItemBitrate}}", "15600000"},
		{"{{ItemGenre}}", "Fantasy,Drama"},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := r.Render(tt.token, ctx, false)
			if !ok {
				t.Fatal("render unexpectedly skipped")
			}
			if got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestRenderAbsentValuesUseZeroSentinels(t *testing.T) {
	r := NewRenderer()
	ctx := RenderContext{Action: ActionAdded, Item: &models.MediaItem{Name: "Bare"}, ItemType: ContentMovie}

	got, ok := r.Render("{{ItemRunTimeTicks}}|{{ItemIndex}}|{{ItemCriticRating}}|{{ItemPremiereDate}}|{{ItemNameParent}}", ctx, false)
	if !ok {
		t.Fatal("render unexpectedly skipped")
	}
	if want := "0|0|0||"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderSessionPlaceholders(t *testing.T) {
	item := &models.MediaItem{Name: "Kind of Blue", Type: "Audio"}
	session := &models.SessionSnapshot{
		SessionID:      "sess-1",
		UserID:         "u-1",
		UserName:       "miles",
		AppName:        "Finamp",
		DeviceID:       "dev-1",
		DeviceName:     "Kitchen Tablet",
		RemoteEndpoint: "192.168.1.40",
		PositionTicks:  int64p(1200),
		NowPlaying:     item,
	}
	r := NewRenderer()

	t.Run("session fields substitute", func(t *testing.T) {
		ctx := RenderContext{Action: ActionPlaying, Item: item, ItemType: ContentSong, Session: session}
		got, ok := r.Render("{{UserName}}@{{DeviceName}} ({{DeviceIP}}) [{{SessionID}}]", ctx, false)
		if !ok {
			t.Fatal("render unexpectedly skipped")
		}
		if want := "miles@Kitchen Tablet (192.168.1.40) [sess-1]"; got != want {
			t.Errorf("Render() = %q, want %q", got, want)
		}
	})

	t.Run("event position preferred over session position", func(t *testing.T) {
		ctx := RenderContext{Action: ActionPlaying, Item: item, ItemType: ContentSong,
			Session: session, PositionTicks: int64p(4500)}
		got, _ := r.Render("{{SessionPlaybackPositionTicks}}", ctx, false)
		if got != "4500" {
			t.Errorf("position = %q, want event-carried 4500", got)
		}
	})

	t.Run("session position used when event carries none", func(t *testing.T) {
		ctx := RenderContext{Action: ActionPlaying, Item: item, ItemType: ContentSong, Session: session}
		got, _ := r.Render("{{SessionPlaybackPositionTicks}}", ctx, false)
		if got != "1200" {
			t.Errorf("position = %q, want session fallback 1200", got)
		}
	})

	t.Run("session tokens untouched without a session", func(t *testing.T) {
		ctx := RenderContext{Action: ActionAdded, Item: item, ItemType: ContentSong}
		got, _ := r.Render("{{UserName}}", ctx, false)
		if got != "{{UserName}}" {
			t.Errorf("Render() = %q, want token passed through", got)
		}
	})
}

func TestRenderSkipsStalePauseAndResume(t *testing.T) {
	r := NewRenderer()
	tests := []struct {
		name    string
		action  Action
		session *models.SessionSnapshot
		wantOK  bool
	}{
		{"paused with no session", ActionPaused, nil, false},
		{"paused with ended session", ActionPaused, &models.SessionSnapshot{DeviceID: "dev"}, false},
		{"resumed with ended session", ActionResumed, &models.SessionSnapshot{DeviceID: "dev"}, false},
		{"paused with live session", ActionPaused, &models.SessionSnapshot{DeviceID: "dev", NowPlaying: &models.MediaItem{Name: "x"}}, true},
		{"stopped with no session", ActionStopped, nil, true},
		{"playing with ended session", ActionPlaying, &models.SessionSnapshot{DeviceID: "dev"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := r.Render("{{Event}}", RenderContext{Action: tt.action, Session: tt.session}, false)
			if ok != tt.wantOK {
				t.Errorf("Render() ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestRenderTimestamp(t *testing.T) {
	at := time.Date(2026, 9, 1, 14, 30, 5, 42_000_000, time.UTC)
	r := fixedRenderer(at)

	got, _ := r.Render("{{TimeStamp}}", RenderContext{Action: ActionAdded}, false)
	if want := "2026-09-01 14:30:05.042"; got != want {
		t.Errorf("timestamp = %q, want %q", got, want)
	}
}

func TestRenderUnknownTokensPassThrough(t *testing.T) {
	r := NewRenderer()
	tmpl := "{{NotAToken}} and {single} braces"
	got, _ := r.Render(tmpl, RenderContext{Action: ActionAdded}, false)
	if got != tmpl {
		t.Errorf("Render() = %q, want template unchanged", got)
	}
}

func TestRenderRepeatedTokens(t *testing.T) {
	r := NewRenderer()
	ctx := RenderContext{Action: ActionStopped, Item: &models.MediaItem{Name: "Ran"}, ItemType: ContentMovie}
	got, _ := r.Render("{{ItemName}}/{{ItemName}}", ctx, false)
	if got != "Ran/Ran" {
		t.Errorf("Render() = %q, want both occurrences substituted", got)
	}
}

func TestRenderQuotedStringsEscape(t *testing.T) {
	r := NewRenderer()
	ctx := RenderContext{
		Action:   ActionAdded,
		Item:     &models.MediaItem{Name: `He said "now"`},
		ItemType: ContentMovie,
	}
	got, _ := r.Render("{{ItemName}}", ctx, true)
	if !strings.Contains(got, `\"now\"`) {
		t.Errorf("quoted render did not escape inner quotes: %q", got)
	}
}
