package models

// GuestName is shown for sessions that never logged in.
const GuestName = "Guest"

// Session is the identity and pending flash messages of one browser.
type Session struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	Flashes  []Flash  `json:"flashes,omitempty"`
}

type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashInfo    FlashCategory = "info"
	FlashWarning FlashCategory = "warning"
	FlashError   FlashCategory = "error"
)

type Flash struct {
	Category FlashCategory `json:"category"`
	Message  string        `json:"message"`
}

func (s *Session) AddFlash(category FlashCategory, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns the queued messages and clears them.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// Clear drops the identity but keeps queued flashes.
func (s *Session) Clear() {
	s.UserID = ""
	s.Username = ""
	s.Role = ""
}

func (s *Session) IsStoreOwner() bool {
	return s.Role == StoreOwner
}
