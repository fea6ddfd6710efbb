package model

import "time"

// ShowRecord is a persisted cinema showing. Records are immutable after
// creation; the only way one disappears is a clear-all of the store.
type ShowRecord struct {
	ShowID              int       `json:"showId"`
	MovieTitle          string    `json:"movieTitle"`
	Theater             string    `json:"theater"`
	ShowDate            string    `json:"showDate"` // dd/mm/yyyy
	ShowTime            string    `json:"showTime"` // HH:MM, 24-hour
	EndDate             string    `json:"endDate"`  // yyyy-mm-dd, showDate + 7 days
	TicketPrice         string    `json:"ticketPrice"`
	DiscountPrice       string    `json:"discountPrice"`
	SeniorDiscountPrice string    `json:"seniorDiscountPrice"`
	Subtitles           bool      `json:"subtitles"`
	Imax                bool      `json:"imax"`
	Notes               string    `json:"notes"`
	SavedAt             time.Time `json:"savedAt"`
}

// ShowForm holds the raw user input for a candidate show before validation.
// Fields stay strings until the builder derives the typed values.
type ShowForm struct {
	MovieTitle  string `validate:"required"`
	Theater     string `validate:"required"`
	ShowDate    string `validate:"required,dateformat,datevalue,weekday,beforeend"`
	ShowTime    string `validate:"required,showtime"`
	TicketPrice string `validate:"required,price"`
	EndDate     string
	Subtitles   bool
	Imax        bool
	Notes       string `validate:"max=50"`
}

// MovieOptions are the candidate titles offered by the form's picker. Any
// non-empty title passes validation; the list only feeds the typeahead.
var MovieOptions = []string{
	"Avatar 3",
	"Spider-Man 4",
	"The Batman 2",
	"Avengers 5",
	"Star Wars IX",
	"Jurassic World 4",
	"Fast X 2",
	"Mission Impossible 8",
	"Top Gun 3",
}

// TheaterOptions are the candidate theaters offered by the form's picker.
var TheaterOptions = []string{
	"Theater 1",
	"Theater 2",
	"Theater 3",
	"Theater 4",
	"IMAX Theater",
	"VIP Theater",
}
