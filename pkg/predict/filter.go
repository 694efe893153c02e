package predict

import "sort"

// RecentMatchesPerTeam is how many of each side's own latest matches are
// appended to the head-to-head set when building the prediction input
const RecentMatchesPerTeam = 5

// RelevantMatches selects the deduplicated match set a prediction for the
// given pairing is based on: every head-to-head meeting found in the home
// side's list (both directions), followed by each side's own most recent
// matches. Head-to-head entries are kept ahead of the generic recents and
// duplicates are dropped on first-seen order.
//
// Either source list may be empty; an empty result is valid and signals
// "no data" to the caller.
func RelevantMatches(homeMatches, awayMatches []*Match, homeID, awayID int) []*Match {
	var candidates []*Match

	for _, m := range homeMatches {
		if m.IsHeadToHead(homeID, awayID) {
			candidates = append(candidates, m)
		}
	}

	candidates = append(candidates, mostRecent(homeMatches, RecentMatchesPerTeam)...)
	candidates = append(candidates, mostRecent(awayMatches, RecentMatchesPerTeam)...)

	seen := make(map[int]bool)
	unique := make([]*Match, 0, len(candidates))
	for _, m := range candidates {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		unique = append(unique, m)
	}
	return unique
}

// mostRecent returns up to n matches ordered by descending kickoff date
func mostRecent(matches []*Match, n int) []*Match {
	sorted := make([]*Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UTCTime.After(sorted[j].UTCTime)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
