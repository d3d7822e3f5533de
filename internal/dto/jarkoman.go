package dto

// JarkomanRequest holds the event fields rendered into a broadcast text.
type JarkomanRequest struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Proker      string `json:"proker"`
	Dept        string `json:"dept"`
	Logistics   string `json:"logistics"`
	PIC         string `json:"pic"`
	Status      string `json:"status"`
	LinkMeeting string `json:"link_meeting"`
}

// JarkomanResponse wraps the generated text.
type JarkomanResponse struct {
	Jarkoman string `json:"jarkoman"`
}
