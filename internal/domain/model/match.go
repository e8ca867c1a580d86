package model

// Season is one edition of a competition.
type Season struct {
	ID   int    `json:"season_id"`
	Name string `json:"season_name"`
}

// Competition groups the seasons the provider publishes for it.
type Competition struct {
	ID      int      `json:"competition_id"`
	Name    string   `json:"competition_name"`
	Country string   `json:"country_name,omitempty"`
	Seasons []Season `json:"seasons"`
}

// CompetitionSeason is one row of the provider's competitions lookup.
type CompetitionSeason struct {
	CompetitionID   int
	CompetitionName string
	Country         string
	SeasonID        int
	SeasonName      string
}

// Match is one fixture.
type Match struct {
	ID            int    `json:"match_id"`
	CompetitionID int    `json:"competition_id"`
	SeasonID      int    `json:"season_id"`
	Date          string `json:"match_date,omitempty"`
	HomeTeam      string `json:"home_team"`
	AwayTeam      string `json:"away_team"`
	HomeScore     int    `json:"home_score"`
	AwayScore     int    `json:"away_score"`
}

// Label renders the fixture the way the match picker shows it.
func (m *Match) Label() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}

// GroupCompetitions folds competition/season rows into competitions, keeping the
// provider's first-appearance order for both competitions and seasons.
func GroupCompetitions(rows []CompetitionSeason) []Competition {
	out := make([]Competition, 0)
	index := make(map[int]int)
	for _, r := range rows {
		i, ok := index[r.CompetitionID]
		if !ok {
			i = len(out)
			index[r.CompetitionID] = i
			out = append(out, Competition{
				ID:      r.CompetitionID,
				Name:    r.CompetitionName,
				Country: r.Country,
				Seasons: make([]Season, 0),
			})
		}
		dup := false
		for _, s := range out[i].Seasons {
			if s.ID == r.SeasonID {
				dup = true
				break
			}
		}
		if !dup {
			out[i].Seasons = append(out[i].Seasons, Season{ID: r.SeasonID, Name: r.SeasonName})
		}
	}
	return out
}
