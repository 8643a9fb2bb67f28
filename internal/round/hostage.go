package round

// HostageCount is the single source of truth for the required number of
// hostages a leader must select in a given round, replacing the two
// duplicated tables the source kept in sync by hand (§9 "single source of
// truth for hostage counts", §4.4.1, §8.3).
func HostageCount(playerCount, round int) int {
	switch {
	case playerCount <= 10:
		return 1
	case playerCount <= 21:
		if round == 1 {
			return 2
		}
		return 1
	default: // 22+
		switch round {
		case 1:
			return 3
		case 2:
			return 2
		default:
			return 1
		}
	}
}
