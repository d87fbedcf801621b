package datasource

import "sort"

// FlattenMatches emits one raw player record per (match, club, player),
// enriched with the identifiers and the club's game context. Output order is
// match order, then club id, then player id.
func FlattenMatches(matches []Match) []map[string]interface{} {
	var records []map[string]interface{}

	for _, match := range matches {
		for _, clubID := range sortedKeys(match.Players) {
			players := match.Players[clubID]
			club, hasClub := match.Clubs[clubID]

			for _, playerID := range sortedKeys(players) {
				record := make(map[string]interface{}, len(players[playerID])+5)
				for k, v := range players[playerID] {
					record[k] = v
				}

				record["match_id"] = match.MatchID
				record["club_id"] = clubID
				record["player_id"] = playerID

				if hasClub {
					if club.Result == 1 {
						record["game_result"] = "win"
					} else {
						record["game_result"] = "loss"
					}
					if club.TeamSide == 0 {
						record["home_away"] = "home"
					} else {
						record["home_away"] = "away"
					}
				}

				records = append(records, record)
			}
		}
	}

	return records
}

// UniqueMatches drops repeated matches, keeping the first occurrence. A game
// between two tracked clubs is returned by both club requests.
func UniqueMatches(matches []Match) []Match {
	seen := make(map[string]struct{}, len(matches))
	unique := make([]Match, 0, len(matches))
	for _, match := range matches {
		if _, dup := seen[match.MatchID]; dup {
			continue
		}
		seen[match.MatchID] = struct{}{}
		unique = append(unique, match)
	}
	return unique
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
