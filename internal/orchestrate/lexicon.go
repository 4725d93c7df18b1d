// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrate

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// webIndicators is the fixed recency/current-events lexicon. A query
// mentioning any of these likely needs fresher information than the
// model's training data holds.
var webIndicators = []string{
	"today", "now", "current", "latest", "recent",
	"weather", "news", "stock", "price", "president",
	"date", "time",
}

// folder performs Unicode case folding for the membership scan, so the
// gate behaves the same for "Weather", "WEATHER" and folded variants.
var folder = cases.Fold()

// NeedsWebSearch reports whether a query calls for a web lookup.
//
// Pure keyword membership: no network or model call, O(len(query)),
// side-effect-free, and deterministic for a given query within a
// calendar year (the current year is part of the lexicon).
func NeedsWebSearch(query string) bool {
	folded := folder.String(query)

	for _, indicator := range webIndicators {
		if strings.Contains(folded, indicator) {
			return true
		}
	}

	// An explicit mention of the current year is a recency signal too.
	return strings.Contains(folded, strconv.Itoa(time.Now().Year()))
}
