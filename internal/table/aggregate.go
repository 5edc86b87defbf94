package table

import "sort"

// Features holds the five audio features the dashboard charts.
type Features struct {
	Energy       float64 `yaml:"energy"`
	Loudness     float64 `yaml:"loudness"`
	Valence      float64 `yaml:"valence"`
	Danceability float64 `yaml:"danceability"`
	Acousticness float64 `yaml:"acousticness"`
}

// GenreStats aggregates the rows of one broad genre.
type GenreStats struct {
	Genre  string `yaml:"genre"`
	Bands  int    `yaml:"bands"`
	Tracks int    `yaml:"tracks"`
	// Mean is the per-track mean of each feature.
	Mean Features `yaml:"mean"`
}

// ByGenre groups rows by broad genre, sorted by genre name. Genres with no
// rows don't appear, so every mean is over at least one track.
func ByGenre(rows []Row) []GenreStats {
	type acc struct {
		bands  map[string]bool
		tracks int
		sum    Features
	}
	groups := map[string]*acc{}
	for _, row := range rows {
		a, ok := groups[row.BroadGenre]
		if !ok {
			a = &acc{bands: map[string]bool{}}
			groups[row.BroadGenre] = a
		}
		a.bands[row.Artist] = true
		a.tracks++
		a.sum.Energy += row.Energy
		a.sum.Loudness += row.Loudness
		a.sum.Valence += row.Valence
		a.sum.Danceability += row.Danceability
		a.sum.Acousticness += row.Acousticness
	}

	stats := make([]GenreStats, 0, len(groups))
	for g, a := range groups {
		n := float64(a.tracks)
		stats = append(stats, GenreStats{
			Genre:  g,
			Bands:  len(a.bands),
			Tracks: a.tracks,
			Mean: Features{
				Energy:       a.sum.Energy / n,
				Loudness:     a.sum.Loudness / n,
				Valence:      a.sum.Valence / n,
				Danceability: a.sum.Danceability / n,
				Acousticness: a.sum.Acousticness / n,
			},
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Genre < stats[j].Genre
	})
	return stats
}

// BandStats is one band's profile, taken from its rows.
type BandStats struct {
	Artist     string
	Followers  int64
	Popularity int
	GenreCount int
	BroadGenre string
	Tracks     int
}

// ByBand returns one entry per distinct artist in rows, ordered by followers
// descending and then by name.
func ByBand(rows []Row) []BandStats {
	index := map[string]int{}
	var bands []BandStats
	for _, row := range rows {
		i, ok := index[row.Artist]
		if !ok {
			i = len(bands)
			index[row.Artist] = i
			bands = append(bands, BandStats{
				Artist:     row.Artist,
				Followers:  row.Followers,
				Popularity: row.Popularity,
				GenreCount: row.GenreCount,
				BroadGenre: row.BroadGenre,
			})
		}
		bands[i].Tracks++
	}
	sort.Slice(bands, func(i, j int) bool {
		if bands[i].Followers != bands[j].Followers {
			return bands[i].Followers > bands[j].Followers
		}
		return bands[i].Artist < bands[j].Artist
	})
	return bands
}

// YearGenreCount is the number of tracks of one genre released in one year.
type YearGenreCount struct {
	Year   int
	Genre  string
	Tracks int
}

// ByYearAndGenre counts tracks per release year and genre, ordered by genre
// then year. Rows whose release date didn't parse are left out.
func ByYearAndGenre(rows []Row) []YearGenreCount {
	type key struct {
		year  int
		genre string
	}
	counts := map[key]int{}
	for _, row := range rows {
		if row.Year == 0 {
			continue
		}
		counts[key{row.Year, row.BroadGenre}]++
	}

	result := make([]YearGenreCount, 0, len(counts))
	for k, n := range counts {
		result = append(result, YearGenreCount{Year: k.year, Genre: k.genre, Tracks: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Genre != result[j].Genre {
			return result[i].Genre < result[j].Genre
		}
		return result[i].Year < result[j].Year
	})
	return result
}

// Valence buckets.
const (
	Positive = "Positive"
	Neutral  = "Neutral"
	Negative = "Negative"
)

// Sentiments lists the valence buckets from most to least positive.
var Sentiments = []string{Positive, Neutral, Negative}

// Sentiment buckets a track by valence: Positive from 0.7, Neutral from 0.3,
// Negative below that.
func Sentiment(valence float64) string {
	switch {
	case valence >= 0.7:
		return Positive
	case valence >= 0.3:
		return Neutral
	default:
		return Negative
	}
}

type SentimentCount struct {
	Genre     string
	Sentiment string
	Tracks    int
}

// ByGenreAndSentiment counts tracks per broad genre and valence bucket,
// ordered by genre then by bucket as in Sentiments. Empty buckets don't
// appear.
func ByGenreAndSentiment(rows []Row) []SentimentCount {
	type key struct {
		genre     string
		sentiment string
	}
	counts := map[key]int{}
	for _, row := range rows {
		counts[key{row.BroadGenre, Sentiment(row.Valence)}]++
	}

	rank := map[string]int{}
	for i, s := range Sentiments {
		rank[s] = i
	}
	result := make([]SentimentCount, 0, len(counts))
	for k, n := range counts {
		result = append(result, SentimentCount{Genre: k.genre, Sentiment: k.sentiment, Tracks: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Genre != result[j].Genre {
			return result[i].Genre < result[j].Genre
		}
		return rank[result[i].Sentiment] < rank[result[j].Sentiment]
	})
	return result
}
