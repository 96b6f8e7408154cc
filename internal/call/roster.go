package call

import "sort"

// Roster is the set of remote participants keyed by session id.  It is
// not safe for concurrent use; the Controller owns it.
type Roster struct {
	m map[string]Participant
}

func NewRoster() *Roster { return &Roster{m: make(map[string]Participant)} }

// Put inserts or replaces p and reports whether it was new.
func (r *Roster) Put(p Participant) bool {
	_, ok := r.m[p.SessionID]
	r.m[p.SessionID] = p
	return !ok
}

// Remove deletes the participant and returns the stored record.
func (r *Roster) Remove(sessionID string) (Participant, bool) {
	p, ok := r.m[sessionID]
	if ok {
		delete(r.m, sessionID)
	}
	return p, ok
}

func (r *Roster) Has(sessionID string) bool {
	_, ok := r.m[sessionID]
	return ok
}

func (r *Roster) Len() int { return len(r.m) }

// Count is the number of people in the call including the local user.
func (r *Roster) Count() int { return len(r.m) + 1 }

func (r *Roster) Reset() { r.m = make(map[string]Participant) }

// List returns the participants ordered by session id.
func (r *Roster) List() []Participant {
	out := make([]Participant, 0, len(r.m))
	for _, p := range r.m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}
