package candidate

import "strings"

// Key identifies a candidate for duplicate detection.
type Key struct {
	Email string
	Phone string
}

// NewKey builds a key from raw email and phone values.
func NewKey(email, phone string) Key {
	return Key{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Phone: strings.TrimSpace(phone),
	}
}

// Empty reports whether both identity fields are blank. An empty key never
// matches anything.
func (k Key) Empty() bool {
	return k.Email == "" && k.Phone == ""
}

func (k Key) String() string {
	return k.Email + "|" + k.Phone
}

// Matches reports whether k and other share a non-empty email or a non-empty
// phone. Either component alone is enough.
func (k Key) Matches(other Key) bool {
	if k.Email != "" && k.Email == other.Email {
		return true
	}
	return k.Phone != "" && k.Phone == other.Phone
}

// IsDuplicate reports whether r collides with any record in existing.
func IsDuplicate(existing []Record, r Record) bool {
	key := r.Key()
	if key.Empty() {
		return false
	}
	for _, e := range existing {
		if key.Matches(e.Key()) {
			return true
		}
	}
	return false
}
