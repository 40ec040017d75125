package index

// Location is one occurrence of a word: the movie it appears in and its
// 0-based position within that movie's description.
type Location struct {
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// WordEntry is the posting for one canonical word. Locations are kept in
// ingestion order, which is ascending by position within each movie.
type WordEntry struct {
	Word      string
	Locations []Location
}

// MovieRecord is one movie handed to the indexer: its title and the raw
// words of its description in reading order.
type MovieRecord struct {
	Title string
	Words []string
}

// MovieResult collects the positions of both query words within one movie.
// MinDistance is -1 until both lists are non-empty and a distance has been
// computed.
type MovieResult struct {
	Title       string `json:"title"`
	PositionsA  []int  `json:"-"`
	PositionsB  []int  `json:"-"`
	MinDistance int    `json:"min_distance"`
}
