package museofile

import (
	"strings"
)

type Filter struct {
	City       string `json:"city"`
	Department string `json:"department"`
	Name       string `json:"name"`
}

// escape prepares user input for a double-quoted ODSQL literal. Wildcards
// are removed so only the ones we add take effect.
func escape(s string) string {
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Where builds the ODSQL where clause. Empty fields are left out and an
// empty filter yields "".
func (f Filter) Where() string {
	var clauses []string
	if v := strings.TrimSpace(f.City); v != "" {
		clauses = append(clauses, `ville like "`+escape(v)+`"`)
	}
	if v := strings.TrimSpace(f.Department); v != "" {
		clauses = append(clauses, `departement like "`+escape(v)+`"`)
	}
	if v := strings.TrimSpace(f.Name); v != "" {
		clauses = append(clauses, `nom_officiel like "%`+escape(v)+`%"`)
	}
	return strings.Join(clauses, " AND ")
}
