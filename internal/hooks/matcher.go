// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package hooks

// Matcher filters the configured hook list by content-type interest and
// event-type interest. Both gates must pass; there is no partial matching.
type Matcher struct {
	provider HookProvider
}

// NewMatcher creates a matcher over the given hook provider.
func NewMatcher(provider HookProvider) *Matcher {
	return &Matcher{provider: provider}
}

// HooksFor returns the hooks interested in the given content type and event
// kind, in configuration order. An empty result is expected steady-state
// behavior, not a fault.
func (m *Matcher) HooksFor(ct ContentType, kind EventKind) []Hook {
	var matched []Hook
	for _, h := range m.provider.Hooks() {
		if h.WantsContent(ct) && h.WantsEvent(kind) {
			matched = append(matched, h)
		}
	}
	return matched
}
