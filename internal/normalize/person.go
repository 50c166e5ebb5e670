package normalize

import "github.com/mauv0809/tournament-importer/internal/roster"

// MapGender maps free text such as "Male (पुरुष)" or "F" to a gender.
// "female" is checked before "male" since the latter is a substring of it.
func MapGender(raw string) roster.Gender {
	v := Fold(raw)
	switch {
	case v == "m":
		return roster.GenderMale
	case v == "f":
		return roster.GenderFemale
	case containsAny(v, "female", "महिला"):
		return roster.GenderFemale
	case containsAny(v, "male", "पुरुष"):
		return roster.GenderMale
	}
	return roster.GenderOther
}

// MapParticipationDays maps answers like "Day 1 (दिन 1)". Anything
// unrecognised, including blank, means both days.
func MapParticipationDays(raw string) roster.ParticipationDays {
	v := Fold(raw)
	switch {
	case containsAny(v, "both", "दोनो"):
		return roster.BothDays
	case containsAny(v, "day 1", "दिन 1"):
		return roster.DayOne
	case containsAny(v, "day 2", "दिन 2"):
		return roster.DayTwo
	}
	return roster.BothDays
}

var (
	parentalKeywords = []string{"permission", "permit", "participate", "parents", "yes"}
	mediaKeywords    = []string{"media", "promotional", "image", "video", "social media"}

	// Refusals override the keywords above: "no media" mentions media but denies it.
	parentalRefusals = []string{"no permission", "not permit", "not give permission", "don't give permission", "not participate"}
	mediaRefusals    = []string{"no media", "no social media", "no photo", "no image", "no video", "no promotional", "not for media", "without media", "not on social media"}
)

// ParsePermissions reads a consent statement and reports parental and media
// consent independently. An explicit refusal clears the matching flag.
func ParsePermissions(raw string) (parental, media bool) {
	v := Fold(raw)
	if v == "" {
		return false, false
	}
	parental = containsAny(v, parentalKeywords...) && !containsAny(v, parentalRefusals...)
	media = containsAny(v, mediaKeywords...) && !containsAny(v, mediaRefusals...)
	return parental, media
}
