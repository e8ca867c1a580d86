package provider

import "github.com/okian/pitchside/internal/domain/model"

// Wire shapes of the StatsBomb open-data files. Only the fields the service
// reads are declared.

type competitionRow struct {
	CompetitionID   int    `json:"competition_id"`
	SeasonID        int    `json:"season_id"`
	CountryName     string `json:"country_name"`
	CompetitionName string `json:"competition_name"`
	SeasonName      string `json:"season_name"`
}

type matchRow struct {
	MatchID   int    `json:"match_id"`
	MatchDate string `json:"match_date"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	HomeTeam  struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
}

type named struct {
	Name string `json:"name"`
}

type eventRow struct {
	ID       string    `json:"id"`
	Index    int       `json:"index"`
	Period   int       `json:"period"`
	Minute   int       `json:"minute"`
	Second   int       `json:"second"`
	Type     named     `json:"type"`
	Team     named     `json:"team"`
	Player   *named    `json:"player"`
	Location []float64 `json:"location"`
	Pass     *struct {
		EndLocation []float64 `json:"end_location"`
	} `json:"pass"`
	Shot *struct {
		Outcome named `json:"outcome"`
	} `json:"shot"`
}

func point(xy []float64) *model.Point {
	if len(xy) < 2 {
		return nil
	}
	return &model.Point{X: xy[0], Y: xy[1]}
}

func (r *competitionRow) toModel() model.CompetitionSeason {
	return model.CompetitionSeason{
		CompetitionID:   r.CompetitionID,
		CompetitionName: r.CompetitionName,
		Country:         r.CountryName,
		SeasonID:        r.SeasonID,
		SeasonName:      r.SeasonName,
	}
}

func (r *matchRow) toModel(competitionID, seasonID int) model.Match {
	return model.Match{
		ID:            r.MatchID,
		CompetitionID: competitionID,
		SeasonID:      seasonID,
		Date:          r.MatchDate,
		HomeTeam:      r.HomeTeam.Name,
		AwayTeam:      r.AwayTeam.Name,
		HomeScore:     r.HomeScore,
		AwayScore:     r.AwayScore,
	}
}

func (r *eventRow) toModel() model.Event {
	e := model.Event{
		ID:       r.ID,
		Index:    r.Index,
		Period:   r.Period,
		Type:     model.TypeFromLabel(r.Type.Name),
		TypeName: r.Type.Name,
		Team:     r.Team.Name,
		Minute:   r.Minute,
		Second:   r.Second,
		Location: point(r.Location),
	}
	if r.Player != nil {
		e.Player = r.Player.Name
	}
	if e.Type == model.TypePass && r.Pass != nil {
		e.PassEndLocation = point(r.Pass.EndLocation)
	}
	if e.Type == model.TypeShot && r.Shot != nil {
		e.ShotOutcome = r.Shot.Outcome.Name
	}
	return e
}
