package domain

type Suggestion struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Value    string `json:"value"`
}

type Geocode struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}
