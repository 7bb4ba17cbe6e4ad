package museofile

import (
	"encoding/json"
	"strings"
)

// Museum is the public shape of one Muséofile record.
type Museum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	Department  string `json:"department"`
	Description string `json:"description,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Theme       string `json:"theme,omitempty"`
	URL         string `json:"url,omitempty"`
}

type record struct {
	Identifiant       string    `json:"identifiant"`
	NomOfficiel       string    `json:"nom_officiel"`
	Ville             string    `json:"ville"`
	Departement       string    `json:"departement"`
	Histoire          string    `json:"histoire"`
	Artiste           string    `json:"artiste"`
	DomaineThematique stringSet `json:"domaine_thematique"`
	URL               string    `json:"url"`
}

type recordsPage struct {
	Results []record `json:"results"`
}

// stringSet accepts either a JSON string or an array of strings.
type stringSet []string

func (s *stringSet) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one != "" {
			*s = stringSet{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

func (r record) museum() Museum {
	return Museum{
		ID:          r.Identifiant,
		Name:        r.NomOfficiel,
		City:        r.Ville,
		Department:  r.Departement,
		Description: strings.TrimSpace(r.Histoire),
		Artist:      strings.TrimSpace(r.Artiste),
		Theme:       strings.Join(r.DomaineThematique, ", "),
		URL:         strings.TrimSpace(r.URL),
	}
}
