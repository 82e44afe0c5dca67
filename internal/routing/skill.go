package routing

import "strings"

// MatchFraction returns the share of questionSkills that partially match a
// moderator skill. A question skill matches when, ignoring case, it contains
// or is contained in any moderator skill, so "js" matches "JavaScript".
// Blank moderator skills never match.
func MatchFraction(moderatorSkills, questionSkills []string) float64 {
	if len(questionSkills) == 0 {
		return 0
	}

	mod := make([]string, 0, len(moderatorSkills))
	for _, s := range moderatorSkills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			mod = append(mod, s)
		}
	}

	matched := 0
	for _, qs := range questionSkills {
		qs = strings.ToLower(strings.TrimSpace(qs))
		if qs == "" {
			continue
		}
		for _, ms := range mod {
			if strings.Contains(ms, qs) || strings.Contains(qs, ms) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(questionSkills))
}
