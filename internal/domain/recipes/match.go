package recipes

import "strings"

// substringScore is awarded when one name contains the other. Any
// substring match outranks any amount of word overlap.
const substringScore = 100

// MatchScore rates how well a pantry product satisfies an ingredient.
// Case-insensitive. A containment match scores 100; otherwise each shared
// word contributes 10 when longer than three characters, 2 otherwise.
func MatchScore(ingredient, product string) int {
	ing := strings.ToLower(strings.TrimSpace(ingredient))
	prod := strings.ToLower(strings.TrimSpace(product))
	if ing == "" || prod == "" {
		return 0
	}
	if strings.Contains(ing, prod) || strings.Contains(prod, ing) {
		return substringScore
	}

	prodWords := map[string]bool{}
	for _, w := range strings.Fields(prod) {
		prodWords[w] = true
	}
	score := 0
	for _, w := range strings.Fields(ing) {
		if !prodWords[w] {
			continue
		}
		if len(w) > 3 {
			score += 10
		} else {
			score += 2
		}
	}
	return score
}

// bestMatch returns the highest score between the ingredient and any
// pantry product.
func bestMatch(ingredient string, pantry []string) int {
	best := 0
	for _, p := range pantry {
		if s := MatchScore(ingredient, p); s > best {
			best = s
		}
	}
	return best
}
