package npc

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/townpipe/core"
)

var (
	nameRegex        = regexp.MustCompile(`<font size="2">-+<b>(.*?):</b>`)
	physiqueRegex    = regexp.MustCompile(`\[<b>HGT:</b>(.*?)<b>WGT:</b>(.*?)\]`)
	feetRegex        = regexp.MustCompile(`(.*?)ft`)
	inchRegex        = regexp.MustCompile(`, (.*?)in`)
	poundRegex       = regexp.MustCompile(`(.*?)lbs`)
	clothingRegex    = regexp.MustCompile(`<b>DRESSEDIN:</b>(.*?)\.`)
	possessionsRegex = regexp.MustCompile(`<b>POSSESSIONS:</b>(.*?)\.`)
	leftoverRegex    = regexp.MustCompile(`</font>|<hr[^>]*>`)
	leadingIntRegex  = regexp.MustCompile(`^[+-]?[0-9]+`)
)

// HeightCM converts feet and inches to whole centimeters.
func HeightCM(feet, inches int) int {
	return int(math.Round(float64(feet)*30.48 + float64(inches)*2.54))
}

// WeightKG converts pounds to whole kilograms.
func WeightKG(pounds int) int {
	return int(math.Round(float64(pounds) * 0.453592))
}

// Parse reads one NPC from its generator markup:
//
//	<font size="2">-<b>Name:</b> [<b>HGT:</b>5ft, 8in <b>WGT:</b>160lbs] text
//	<b>DRESSEDIN:</b> a, b. <b>POSSESSIONS:</b> c, and d.</font>
//
// Every matched token is removed; what remains is the description. Missing
// tokens leave their field empty. The returned NPC has no id yet.
func Parse(fragment string, building int) *core.NPC {
	n := &core.NPC{
		Building:    building,
		Clothing:    []string{},
		Possessions: []string{},
	}
	if m := nameRegex.FindStringSubmatch(fragment); m != nil {
		fragment = strings.ReplaceAll(fragment, m[0], "")
		n.Name = m[1]
	}
	if m := physiqueRegex.FindStringSubmatch(fragment); m != nil {
		fragment = strings.ReplaceAll(fragment, m[0], "")
		var feet, inches, pounds int
		if f := feetRegex.FindStringSubmatch(m[1]); f != nil {
			feet = leadingInt(f[1])
		}
		if i := inchRegex.FindStringSubmatch(m[1]); i != nil {
			inches = leadingInt(i[1])
		}
		if p := poundRegex.FindStringSubmatch(m[2]); p != nil {
			pounds = leadingInt(p[1])
		}
		n.Height = HeightCM(feet, inches)
		n.Weight = WeightKG(pounds)
	}
	if m := clothingRegex.FindStringSubmatch(fragment); m != nil {
		fragment = strings.ReplaceAll(fragment, m[0], "")
		n.Clothing = items(m[1])
	}
	if m := possessionsRegex.FindStringSubmatch(fragment); m != nil {
		fragment = strings.ReplaceAll(fragment, m[0], "")
		n.Possessions = items(m[1])
	}
	n.Description = strings.Join(strings.Fields(leftoverRegex.ReplaceAllString(fragment, "")), " ")
	return n
}

// items splits a generator list ("a cloak, a hat, and boots") into
// capitalized entries without the joining "and".
func items(list string) []string {
	parts := strings.Split(list, ", ")
	out := make([]string, 0, len(parts))
	for _, item := range parts {
		item = strings.TrimSpace(item)
		if item == "and" {
			item = ""
		} else if rest, ok := strings.CutPrefix(item, "and "); ok {
			item = strings.TrimSpace(rest)
		}
		out = append(out, upperFirst(item))
	}
	return out
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// leadingInt parses the integer prefix of s after leading spaces, 0 if none.
func leadingInt(s string) int {
	digits := leadingIntRegex.FindString(strings.TrimSpace(s))
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return v
}
