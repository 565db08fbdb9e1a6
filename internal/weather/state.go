package weather

import "sync"

// Theme is the UI colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// View is the forecast granularity shown to the user.
type View string

const (
	ViewHourly View = "hourly"
	ViewDaily  View = "daily"
)

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

// Notification is the transient banner shown after an action.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Snapshot is a copy of the UI state handed to subscribers and the HTTP layer.
type Snapshot struct {
	Unit         Unit          `json:"unit"`
	Theme        Theme         `json:"theme"`
	View         View          `json:"view"`
	Online       bool          `json:"online"`
	Loading      bool          `json:"loading"`
	Notification *Notification `json:"notification"`
	Report       *Report       `json:"report"`
}

// State owns the ephemeral UI state. Every mutation goes through a transition
// method, and subscribers are notified with a copy after the lock is released.
type State struct {
	mu          sync.Mutex
	snap        Snapshot
	subscribers map[int]func(Snapshot)
	nextID      int
}

// NewState returns the default UI state: Celsius, light theme, daily view.
func NewState(online bool) *State {
	return &State{
		snap: Snapshot{
			Unit:   Celsius,
			Theme:  ThemeLight,
			View:   ViewDaily,
			Online: online,
		},
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn for every future transition and returns its cancel func.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Online implements Connectivity.
func (s *State) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Online
}

func (s *State) SetOnline(online bool) {
	s.update(func(snap *Snapshot) bool {
		if snap.Online == online {
			return false
		}
		snap.Online = online
		return true
	})
}

func (s *State) SetUnit(u Unit) {
	s.update(func(snap *Snapshot) bool {
		snap.Unit = u
		snap.Notification = &Notification{Message: "Units: " + u.Symbol(), Severity: SeverityInfo}
		return true
	})
}

func (s *State) SetTheme(t Theme) {
	msg := "Light theme enabled"
	if t == ThemeDark {
		msg = "Dark theme enabled"
	}
	s.update(func(snap *Snapshot) bool {
		snap.Theme = t
		snap.Notification = &Notification{Message: msg, Severity: SeverityInfo}
		return true
	})
}

func (s *State) SetView(v View) {
	s.update(func(snap *Snapshot) bool {
		snap.View = v
		return true
	})
}

// Dismiss clears the current notification.
func (s *State) Dismiss() {
	s.update(func(snap *Snapshot) bool {
		if snap.Notification == nil {
			return false
		}
		snap.Notification = nil
		return true
	})
}

func (s *State) beginLookup() {
	s.update(func(snap *Snapshot) bool {
		snap.Loading = true
		return true
	})
}

// finishLookup clears the loading flag and sets the outcome. A nil report keeps
// the previously displayed one, a nil notification keeps the banner untouched.
func (s *State) finishLookup(report *Report, n *Notification) {
	s.update(func(snap *Snapshot) bool {
		snap.Loading = false
		if report != nil {
			snap.Report = report
		}
		if n != nil {
			snap.Notification = n
		}
		return true
	})
}

func (s *State) update(fn func(*Snapshot) bool) {
	s.mu.Lock()
	changed := fn(&s.snap)
	snap := s.snap
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, sub := range subs {
		sub(snap)
	}
}
