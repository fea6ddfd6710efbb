package model

import "time"

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Session is the state handed to the dashboard after a successful login. It is
// set on login and cleared on logout; there is no ambient current-user global.
type Session struct {
	User     User      `json:"user"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issuedAt"`
}
