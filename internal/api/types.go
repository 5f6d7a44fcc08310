package api

type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type LeagueEntry struct {
	LeagueID     string `json:"leagueId"`
	PUUID        string `json:"puuid"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Veteran      bool   `json:"veteran"`
	HotStreak    bool   `json:"hotStreak"`
}

type MatchDetail struct {
	Metadata struct {
		MatchID      string   `json:"matchId"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info struct {
		QueueID      int           `json:"queueId"`
		GameCreation int64         `json:"gameCreation"`
		Participants []Participant `json:"participants"`
	} `json:"info"`
}

type Participant struct {
	PUUID        string `json:"puuid"`
	ChampionID   int    `json:"championId"`
	ChampionName string `json:"championName"`
}

// ChampionFor returns the champion played by puuid in this match.
func (m *MatchDetail) ChampionFor(puuid string) (int, bool) {
	for _, p := range m.Info.Participants {
		if p.PUUID == puuid {
			return p.ChampionID, true
		}
	}
	return 0, false
}
