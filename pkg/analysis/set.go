package analysis

import (
	"sort"
	"time"

	"igfollowers/pkg/models"
)

// UserSet is an unordered set of accounts, unique by case-insensitive username.
// The zero value is not usable; create sets with NewUserSet. A nil *UserSet
// behaves as an empty set for all read operations.
type UserSet struct {
	users map[string]models.InstagramUser
}

// NewUserSet creates a set holding the given users
func NewUserSet(users ...models.InstagramUser) *UserSet {
	s := &UserSet{users: make(map[string]models.InstagramUser, len(users))}
	for _, u := range users {
		s.Add(u)
	}
	return s
}

// FromUsernames creates a set from bare usernames
func FromUsernames(usernames ...string) *UserSet {
	s := NewUserSet()
	for _, name := range usernames {
		s.Add(models.NewUser(name, time.Time{}))
	}
	return s
}

// Add inserts u and reports whether it was new. For a duplicate, the first
// spelling is kept and the newer timestamp wins.
func (s *UserSet) Add(u models.InstagramUser) bool {
	if u.Username == "" {
		return false
	}
	key := u.Key()
	existing, ok := s.users[key]
	if !ok {
		s.users[key] = u
		return true
	}
	if u.FollowedAt.After(existing.FollowedAt) {
		existing.FollowedAt = u.FollowedAt
		s.users[key] = existing
	}
	return false
}

// Merge adds every user of other to s
func (s *UserSet) Merge(other *UserSet) {
	if other == nil {
		return
	}
	for _, u := range other.users {
		s.Add(u)
	}
}

// Contains reports whether username is in the set
func (s *UserSet) Contains(username string) bool {
	_, ok := s.Get(username)
	return ok
}

// Get returns the stored user for username
func (s *UserSet) Get(username string) (models.InstagramUser, bool) {
	if s == nil {
		return models.InstagramUser{}, false
	}
	u, ok := s.users[models.InstagramUser{Username: username}.Key()]
	return u, ok
}

// Len returns the number of users
func (s *UserSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.users)
}

// IsEmpty reports whether the set has no users
func (s *UserSet) IsEmpty() bool {
	return s.Len() == 0
}

// Users returns the users sorted by key
func (s *UserSet) Users() []models.InstagramUser {
	if s == nil {
		return []models.InstagramUser{}
	}
	out := make([]models.InstagramUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Usernames returns the usernames sorted case-insensitively
func (s *UserSet) Usernames() []string {
	users := s.Users()
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}

// Clone returns an independent copy of the set
func (s *UserSet) Clone() *UserSet {
	c := NewUserSet()
	c.Merge(s)
	return c
}

// Intersect returns the users present in both sets. Entries are taken from s.
func (s *UserSet) Intersect(other *UserSet) *UserSet {
	out := NewUserSet()
	if s.Len() == 0 || other.Len() == 0 {
		return out
	}
	small, large := s, other
	if other.Len() < s.Len() {
		small, large = other, s
	}
	for key := range small.users {
		if _, ok := large.users[key]; ok {
			out.users[key] = s.users[key]
		}
	}
	return out
}

// Difference returns the users of s that are not in other
func (s *UserSet) Difference(other *UserSet) *UserSet {
	out := NewUserSet()
	if s == nil {
		return out
	}
	for key, u := range s.users {
		if other != nil {
			if _, ok := other.users[key]; ok {
				continue
			}
		}
		out.users[key] = u
	}
	return out
}

// Union returns the users present in either set
func (s *UserSet) Union(other *UserSet) *UserSet {
	out := s.Clone()
	out.Merge(other)
	return out
}
