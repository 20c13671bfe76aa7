package building

import (
	"regexp"
	"strings"
)

var houseLinkRegex = regexp.MustCompile(`.*?href="#modal_([0-9]+)".*?<br/>`)

// FilterEmptyHouses drops every house link of npcList whose building is also
// linked from others, the normalized HTML of every other section except the
// map. Those occupants are already reachable through the building where they
// work.
func FilterEmptyHouses(npcList, others string) string {
	var kept strings.Builder
	for _, m := range houseLinkRegex.FindAllStringSubmatch(npcList, -1) {
		if !strings.Contains(others, `href="#modal_`+m[1]+`"`) {
			kept.WriteString(m[0])
		}
	}
	return kept.String()
}
