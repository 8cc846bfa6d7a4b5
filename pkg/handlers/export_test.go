package handlers

var (
	TitleCase  = titleCase
	Initials   = initials
	LandingFor = landingFor
)
