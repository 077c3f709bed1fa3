package editor

import (
	"math/rand/v2"
	"strings"
)

// PickPrompt returns explicit when it is non-blank, otherwise a prompt chosen
// uniformly at random from choices. It returns "" when there is nothing to
// choose from.
func PickPrompt(explicit string, choices []string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	candidates := make([]string, 0, len(choices))
	for _, c := range choices {
		if c = strings.TrimSpace(c); c != "" {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[rand.IntN(len(candidates))]
}
