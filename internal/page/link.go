package page

// Link is a navigation entry pointing at one generated page.
// Links are comparable; two links with equal title and file name are equal.
type Link struct {
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// uniqueLinks removes duplicate links, keeping first-seen order.
func uniqueLinks(links []Link) []Link {
	seen := make(map[Link]struct{}, len(links))
	result := make([]Link, 0, len(links))
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		result = append(result, l)
	}
	return result
}
