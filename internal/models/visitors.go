package models

type Theme string

const (
	ThemeDark   Theme = "dark"
	ThemeLight  Theme = "light"
	ThemeSystem Theme = "system"
)

// DefaultTheme is used when the visitor never picked one
const DefaultTheme = ThemeDark

// Valid checks if the theme is one of the known themes
func (t Theme) Valid() bool {
	switch t {
	case ThemeDark, ThemeLight, ThemeSystem:
		return true
	}
	return false
}

// Visitor is the owner of the current request.
// Every visitor has an anonymous ID stored in the session,
// signed-in visitors also carry the user ID written by the auth provider.
type Visitor struct {
	ID         string `json:"-"`
	UserID     string `json:"-"`
	FirstVisit bool   `json:"first_visit"`
	Theme      Theme  `json:"theme"`
}

// Check if the visitor is signed in
func (v *Visitor) IsAuthenticated() bool {
	return v != nil && v.UserID != ""
}

// OwnerID is the ID under which the visitor's data is stored
func (v *Visitor) OwnerID() string {
	if v == nil {
		return ""
	}

	if v.UserID != "" {
		return v.UserID
	}

	return v.ID
}
