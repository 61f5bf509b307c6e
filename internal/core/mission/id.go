// Package mission contains the pure business logic for mission operations.
// This is part of the Functional Core - no I/O, only pure functions.
package mission

import "strconv"

// GenerateMissionID returns count+1, the sequential id of the next mission.
// Missions are never removed from the store, so count+1 is normally free;
// if the document was pruned by hand, the id probes upward past occupied
// ids instead of overwriting one.
func GenerateMissionID(count int, taken func(id string) bool) string {
	n := count + 1
	for taken != nil && taken(strconv.Itoa(n)) {
		n++
	}
	return strconv.Itoa(n)
}

// ParseMissionNumber extracts the number from a mission id.
// Returns -1 if the ID format is invalid. A leading '#' is accepted.
func ParseMissionNumber(id string) int {
	if len(id) > 0 && id[0] == '#' {
		id = id[1:]
	}
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return -1
	}
	return n
}
