// Package genre maps Spotify's free-form genre tags onto a small set of broad
// categories, and gives each category the colour every chart draws it in.
package genre

import "strings"

const Other = "Other"

type rule struct {
	keyword  string
	category string
}

// Checked in order; the first keyword found anywhere in the tags wins. Since
// "pop" comes before "k-pop", K-Pop artists are classified as Pop.
var rules = []rule{
	{"rock", "Rock"},
	{"pop", "Pop"},
	{"hip hop", "Hip-Hop"},
	{"rap", "Hip-Hop"},
	{"jazz", "Jazz"},
	{"blues", "Blues"},
	{"k-pop", "K-Pop"},
	{"metal", "Metal"},
	{"punk", "Punk"},
	{"electronic", "Electronic/Dance"},
	{"reggae", "Reggae"},
	{"country", "Country"},
	{"latin", "Latin"},
	{"afro soul", "African"},
}

var palette = []struct {
	category string
	color    string
}{
	{"Pop", "red"},
	{"Rock", "blue"},
	{"Hip-Hop", "purple"},
	{"Jazz", "orange"},
	{"Blues", "lightblue"},
	{"K-Pop", "pink"},
	{"Metal", "gray"},
	{"Punk", "green"},
	{"Electronic/Dance", "yellow"},
	{"Reggae", "brown"},
	{"Country", "gold"},
	{"Latin", "teal"},
	{"African", "darkgreen"},
	{Other, "lightgray"},
}

// Classify returns the broad category for a comma-joined list of genre tags,
// or Other if no keyword matches.
func Classify(tags string) string {
	tags = strings.ToLower(tags)
	for _, r := range rules {
		if strings.Contains(tags, r.keyword) {
			return r.category
		}
	}
	return Other
}

// ClassifyTags joins tags the way the dashboard displays them and classifies
// the result.
func ClassifyTags(tags []string) string {
	return Classify(strings.Join(tags, ", "))
}

// Color returns the chart colour for category. Unknown categories get Other's
// colour.
func Color(category string) string {
	for _, p := range palette {
		if p.category == category {
			return p.color
		}
	}
	return Color(Other)
}

// Categories lists every category in palette order.
func Categories() []string {
	categories := make([]string, len(palette))
	for i, p := range palette {
		categories[i] = p.category
	}
	return categories
}
