package domain

// ProfileField names a user attribute that may be changed after registration.
type ProfileField string

const (
	FieldFirstName    ProfileField = "firstName"
	FieldLastName     ProfileField = "lastName"
	FieldDisplayName  ProfileField = "displayName"
	FieldLocation     ProfileField = "location"
	FieldBio          ProfileField = "bio"
	FieldSocialMedia  ProfileField = "socialMedia"
	FieldMeetLink     ProfileField = "meetLink"
	FieldProfilePhoto ProfileField = "profilePhoto"
)

// ProfileChange is one typed profile update. The set of implementations is
// closed: only the types in this file satisfy it.
type ProfileChange interface {
	Field() ProfileField
	Value() string
	profileChange()
}

type (
	SetFirstName    string
	SetLastName     string
	SetDisplayName  string
	SetLocation     string
	SetBio          string
	SetSocialMedia  string
	SetMeetLink     string
	SetProfilePhoto string
)

func (v SetFirstName) Field() ProfileField { return FieldFirstName }
func (v SetFirstName) Value() string       { return string(v) }
func (v SetFirstName) profileChange()      {}

func (v SetLastName) Field() ProfileField { return FieldLastName }
func (v SetLastName) Value() string       { return string(v) }
func (v SetLastName) profileChange()      {}

func (v SetDisplayName) Field() ProfileField { return FieldDisplayName }
func (v SetDisplayName) Value() string       { return string(v) }
func (v SetDisplayName) profileChange()      {}

func (v SetLocation) Field() ProfileField { return FieldLocation }
func (v SetLocation) Value() string       { return string(v) }
func (v SetLocation) profileChange()      {}

func (v SetBio) Field() ProfileField { return FieldBio }
func (v SetBio) Value() string       { return string(v) }
func (v SetBio) profileChange()      {}

func (v SetSocialMedia) Field() ProfileField { return FieldSocialMedia }
func (v SetSocialMedia) Value() string       { return string(v) }
func (v SetSocialMedia) profileChange()      {}

func (v SetMeetLink) Field() ProfileField { return FieldMeetLink }
func (v SetMeetLink) Value() string       { return string(v) }
func (v SetMeetLink) profileChange()      {}

func (v SetProfilePhoto) Field() ProfileField { return FieldProfilePhoto }
func (v SetProfilePhoto) Value() string       { return string(v) }
func (v SetProfilePhoto) profileChange()      {}

// requiredFields may be changed but never cleared.
var requiredFields = map[ProfileField]struct{}{
	FieldFirstName:   {},
	FieldLastName:    {},
	FieldDisplayName: {},
	FieldLocation:    {},
}

// Clears reports whether c would blank out a field the profile cannot be without.
func Clears(c ProfileChange) bool {
	_, required := requiredFields[c.Field()]
	return required && c.Value() == ""
}
