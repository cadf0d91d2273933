// Package store is the client's single source of truth. State is mutated
// only through the named reducer methods below; every mutation is followed
// by a snapshot save through the injected Persistence.
package store

import (
	"sync"

	"github.com/sirupsen/logrus"

	"assistant-client/internal/models"
)

// ChatState is the session slice: auth, profile, conversation, speaker.
type ChatState struct {
	AuthToken   string           `json:"auth_token"`
	IsLoggedIn  bool             `json:"is_logged_in"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Username    string           `json:"username"`
	Image       string           `json:"image"`
	ChatHistory []models.Message `json:"chat_history"`
	IsSpeakerOn bool             `json:"is_speaker_on"`
}

// DashboardState is the dashboard slice: alarms, tasks, navigation default.
type DashboardState struct {
	Alarms            []models.Alarm `json:"all_alarms"`
	Tasks             []models.Task  `json:"all_tasks"`
	DefaultNavigation string         `json:"default_navigation"`
}

// Profile carries the profile fields set after login.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Image     string
}

// AlarmPatch holds the mutable alarm fields; nil fields are left untouched.
type AlarmPatch struct {
	Description   *string
	AlarmTime     *string
	RepeatPattern *string
	Priority      *string
	Tags          *[]string
}

// Store holds both slices behind one mutex.
type Store struct {
	mu        sync.Mutex
	chat      ChatState
	dashboard DashboardState
	persist   Persistence
	logger    *logrus.Logger
	onMessage []func(models.Message)
}

// New builds a Store rehydrated from p, or empty when nothing is persisted.
// p may be nil for a purely in-process store.
func New(p Persistence, logger *logrus.Logger) (*Store, error) {
	s := &Store{persist: p, logger: logger}
	s.chat = ChatState{}
	s.dashboard = DashboardState{DefaultNavigation: "alarms"}

	if p != nil {
		snap, err := p.Load()
		if err != nil {
			return nil, err
		}
		if snap != nil {
			s.chat = snap.Chat
			s.dashboard = snap.Dashboard
			if s.dashboard.DefaultNavigation == "" {
				s.dashboard.DefaultNavigation = "alarms"
			}
		}
	}
	return s, nil
}

// OnMessage registers an observer invoked after every appended Message.
// Observers run outside the store lock.
func (s *Store) OnMessage(fn func(models.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMessage = append(s.onMessage, fn)
}

// Chat returns a copy of the chat slice.
func (s *Store) Chat() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.chat
	out.ChatHistory = append([]models.Message(nil), s.chat.ChatHistory...)
	return out
}

// Dashboard returns a copy of the dashboard slice.
func (s *Store) Dashboard() DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.dashboard
	out.Alarms = append([]models.Alarm(nil), s.dashboard.Alarms...)
	out.Tasks = append([]models.Task(nil), s.dashboard.Tasks...)
	return out
}

// Auth reports the login flag and token together.
func (s *Store) Auth() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.IsLoggedIn, s.chat.AuthToken
}

// ---- chat slice reducers ----

// SetToken stores the auth token and marks the session logged in.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.chat.AuthToken = token
	s.chat.IsLoggedIn = true
	s.save()
	s.mu.Unlock()
}

// SetProfile stores the profile fields.
func (s *Store) SetProfile(p Profile) {
	s.mu.Lock()
	s.chat.FirstName = p.FirstName
	s.chat.LastName = p.LastName
	s.chat.Email = p.Email
	s.chat.Username = p.Username
	s.chat.Image = p.Image
	s.save()
	s.mu.Unlock()
}

// AppendMessage appends one Message to the conversation history and
// notifies observers.
func (s *Store) AppendMessage(m models.Message) {
	s.mu.Lock()
	s.chat.ChatHistory = append(s.chat.ChatHistory, m)
	observers := append(([]func(models.Message))(nil), s.onMessage...)
	s.save()
	s.mu.Unlock()

	for _, fn := range observers {
		fn(m)
	}
}

// ClearChat empties the conversation history unconditionally.
func (s *Store) ClearChat() {
	s.mu.Lock()
	s.chat.ChatHistory = nil
	s.save()
	s.mu.Unlock()
}

// SetSpeaker flips the text-to-speech toggle.
func (s *Store) SetSpeaker(on bool) {
	s.mu.Lock()
	s.chat.IsSpeakerOn = on
	s.save()
	s.mu.Unlock()
}

// SpeakerOn reports the text-to-speech toggle.
func (s *Store) SpeakerOn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.IsSpeakerOn
}

// ResetChat restores the chat slice to its initial state.
func (s *Store) ResetChat() {
	s.mu.Lock()
	s.chat = ChatState{}
	s.save()
	s.mu.Unlock()
}

// ---- dashboard slice reducers ----

// SetAlarms replaces the alarm list with freshly fetched data.
func (s *Store) SetAlarms(alarms []models.Alarm) {
	s.mu.Lock()
	s.dashboard.Alarms = append([]models.Alarm(nil), alarms...)
	s.save()
	s.mu.Unlock()
}

// AppendAlarm prepends a newly created alarm.
func (s *Store) AppendAlarm(a models.Alarm) {
	s.mu.Lock()
	s.dashboard.Alarms = append([]models.Alarm{a}, s.dashboard.Alarms...)
	s.save()
	s.mu.Unlock()
}

// UpdateAlarm applies patch to the alarm with the given ID. Unknown IDs are
// a no-op.
func (s *Store) UpdateAlarm(id string, patch AlarmPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dashboard.Alarms {
		if s.dashboard.Alarms[i].ID != id {
			continue
		}
		a := &s.dashboard.Alarms[i]
		if patch.Description != nil {
			a.Description = *patch.Description
		}
		if patch.AlarmTime != nil {
			a.AlarmTime = *patch.AlarmTime
		}
		if patch.RepeatPattern != nil {
			a.RepeatPattern = *patch.RepeatPattern
		}
		if patch.Priority != nil {
			a.Priority = *patch.Priority
		}
		if patch.Tags != nil {
			a.Tags = *patch.Tags
		}
		s.save()
		return
	}
}

// ToggleAlarmActive sets is_active on the alarm with the given ID. Unknown
// IDs are a no-op.
func (s *Store) ToggleAlarmActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dashboard.Alarms {
		if s.dashboard.Alarms[i].ID == id {
			s.dashboard.Alarms[i].IsActive = active
			s.save()
			return
		}
	}
}

// DeleteAlarm removes the alarm with the given ID.
func (s *Store) DeleteAlarm(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.dashboard.Alarms[:0]
	for _, a := range s.dashboard.Alarms {
		if a.ID != id {
			out = append(out, a)
		}
	}
	s.dashboard.Alarms = out
	s.save()
}

// SetTasks replaces the task list with freshly fetched data.
func (s *Store) SetTasks(tasks []models.Task) {
	s.mu.Lock()
	s.dashboard.Tasks = append([]models.Task(nil), tasks...)
	s.save()
	s.mu.Unlock()
}

// AppendTask prepends a newly created task.
func (s *Store) AppendTask(t models.Task) {
	s.mu.Lock()
	s.dashboard.Tasks = append([]models.Task{t}, s.dashboard.Tasks...)
	s.save()
	s.mu.Unlock()
}

// DeleteTask removes the task with the given ID.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.dashboard.Tasks[:0]
	for _, t := range s.dashboard.Tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.dashboard.Tasks = out
	s.save()
}

// SetDefaultNavigation records which dashboard tab opens first.
func (s *Store) SetDefaultNavigation(nav string) {
	s.mu.Lock()
	s.dashboard.DefaultNavigation = nav
	s.save()
	s.mu.Unlock()
}

// ResetDashboard restores the dashboard slice to its initial state.
func (s *Store) ResetDashboard() {
	s.mu.Lock()
	s.dashboard = DashboardState{DefaultNavigation: "alarms"}
	s.save()
	s.mu.Unlock()
}

// ReconcileAlarm applies a server-pushed alarm event: a recurring alarm
// advances to its next occurrence, a one-shot alarm deactivates. Unknown
// IDs are a no-op.
func (s *Store) ReconcileAlarm(ev models.AlarmEvent) {
	if ev.NextAlarmTime != "" {
		next := ev.NextAlarmTime
		s.UpdateAlarm(ev.AlarmID, AlarmPatch{AlarmTime: &next})
		return
	}
	s.ToggleAlarmActive(ev.AlarmID, false)
}

// save persists a snapshot; callers hold the lock. Failures are logged,
// never fatal.
func (s *Store) save() {
	if s.persist == nil {
		return
	}
	snap := Snapshot{Chat: s.chat, Dashboard: s.dashboard}
	if err := s.persist.Save(snap); err != nil && s.logger != nil {
		s.logger.Errorf("Failed to persist store snapshot: %v", err)
	}
}
