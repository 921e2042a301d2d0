package service

import "vitrola/internal/models"

// defaultWords is seeded into an empty word table
var defaultWords = []models.NewWord{
	{Text: "amor", Language: "PT", Theme: "romance"},
	{Text: "saudade", Language: "PT", Theme: "romance"},
	{Text: "coração", Language: "PT", Theme: "romance"},
	{Text: "beijo", Language: "PT", Theme: "romance"},
	{Text: "mar", Language: "PT", Theme: "natureza"},
	{Text: "lua", Language: "PT", Theme: "natureza"},
	{Text: "sol", Language: "PT", Theme: "natureza"},
	{Text: "chuva", Language: "PT", Theme: "natureza"},
	{Text: "festa", Language: "PT", Theme: "festa"},
	{Text: "samba", Language: "PT", Theme: "festa"},
	{Text: "carnaval", Language: "PT", Theme: "festa"},
	{Text: "garota", Language: "PT", Theme: "bossa nova", MediaURL: "https://www.youtube.com/watch?v=c5QfXjsoNe4"},
	{Text: "estrada", Language: "PT", Theme: "viagem"},
	{Text: "cidade", Language: "PT", Theme: "viagem"},
	{Text: "love", Language: "EN", Theme: "romance"},
	{Text: "heart", Language: "EN", Theme: "romance"},
	{Text: "dance", Language: "EN", Theme: "party"},
	{Text: "night", Language: "EN", Theme: "party"},
	{Text: "rain", Language: "EN", Theme: "nature"},
	{Text: "road", Language: "EN", Theme: "travel"},
}
