package models

// User is the person using the app. Sign-in asks only for a display name;
// there are no credentials.
type User struct {
	Name string
}
