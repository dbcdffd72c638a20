package database

import "strings"

// LikeEscape is the escape character paired with ContainsPattern. It is
// written as ESCAPE '!' because a backslash literal parses differently in
// SQLite and MySQL.
const LikeEscape = "!"

var likeReplacer = strings.NewReplacer(
	LikeEscape, LikeEscape+LikeEscape,
	"%", LikeEscape+"%",
	"_", LikeEscape+"_",
)

// ContainsPattern returns a LIKE pattern matching s anywhere, with
// wildcards in s taken literally.
func ContainsPattern(s string) string {
	return "%" + likeReplacer.Replace(s) + "%"
}

// LikeAny builds "(col LIKE ? ESCAPE '!' OR ...)" over columns.
func LikeAny(columns ...string) string {
	conds := make([]string, len(columns))
	for i, col := range columns {
		conds[i] = col + " LIKE ? ESCAPE '" + LikeEscape + "'"
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}
