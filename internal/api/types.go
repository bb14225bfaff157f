package api

import (
	"bytes"
	"encoding/json"
	"time"
)

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Profile struct {
	ID                  int64  `json:"id"`
	User                User   `json:"user"`
	IsOrganizer         bool   `json:"is_organizer"`
	NotificationsOptOut bool   `json:"notifications_opt_out"`
	AboutMe             string `json:"about_me"`
	ProfilePicture      string `json:"profile_picture"`
}

type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPNotGoing RSVPStatus = "not_going"
)

// RSVPStatuses lists the choices in display order.
var RSVPStatuses = []RSVPStatus{RSVPGoing, RSVPMaybe, RSVPNotGoing}

func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}

func (s RSVPStatus) Label() string {
	switch s {
	case RSVPGoing:
		return "Going"
	case RSVPMaybe:
		return "Maybe"
	case RSVPNotGoing:
		return "Not Going"
	}
	return string(s)
}

// Time decodes RFC 3339 timestamps. Anything it cannot read, including ""
// and null, becomes the zero time so one bad field never fails a whole list.
type Time struct {
	time.Time
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Time) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	var s string
	if bytes.Equal(b, []byte("null")) || json.Unmarshal(b, &s) != nil {
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

type Event struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Perks         string     `json:"perks"`
	LocationName  string     `json:"location_name"`
	Address       string     `json:"address"`
	MapLink       string     `json:"map_link"`
	StartTime     Time       `json:"start_time"`
	EndTime       Time       `json:"end_time"`
	CreatedBy     *User      `json:"created_by"`
	GoingCount    int        `json:"going_count"`
	MaybeCount    int        `json:"maybe_count"`
	NotGoingCount int        `json:"not_going_count"`
	MyRSVP        RSVPStatus `json:"my_rsvp"`
}

// EventInput is the writable subset of an event used for create and PATCH.
type EventInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Perks        string `json:"perks"`
	LocationName string `json:"location_name"`
	Address      string `json:"address"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

type RSVP struct {
	ID     int64      `json:"id"`
	Event  int64      `json:"event"`
	Status RSVPStatus `json:"status"`
}

type Friend struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

func (f Friend) DisplayName() string {
	switch {
	case f.Username != "":
		return f.Username
	case f.Name != "":
		return f.Name
	case f.Email != "":
		return f.Email
	}
	return "Friend"
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDeclined RequestStatus = "declined"
)

type FriendRequest struct {
	ID       int64         `json:"id"`
	FromUser *Friend       `json:"from_user"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Status   RequestStatus `json:"status"`
}

func (r FriendRequest) DisplayName() string {
	switch {
	case r.FromUser != nil && r.FromUser.Username != "":
		return r.FromUser.Username
	case r.Username != "":
		return r.Username
	case r.Email != "":
		return r.Email
	}
	return "Unknown"
}

// LastMessage is the conversation preview. The backend sends either an
// object or a bare string.
type LastMessage struct {
	Text      string `json:"text"`
	Timestamp Time   `json:"timestamp"`
}

func (m *LastMessage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &m.Text)
	}
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	type plain LastMessage
	return json.Unmarshal(b, (*plain)(m))
}

type Conversation struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Friend      *Friend      `json:"friend"`
	LastMessage *LastMessage `json:"last_message"`
	UnreadCount int          `json:"unread_count"`
	UpdatedAt   Time         `json:"updated_at"`
}

func (c Conversation) DisplayName() string {
	if c.Friend != nil && c.Friend.Username != "" {
		return c.Friend.Username
	}
	return "Unknown"
}

func (c Conversation) FriendID() int64 {
	if c.Friend == nil {
		return 0
	}
	return c.Friend.ID
}

type Message struct {
	ID             int64           `json:"id"`
	ConversationID int64           `json:"conversation_id"`
	SenderID       int64           `json:"sender_id"`
	Sender         json.RawMessage `json:"sender,omitempty"`
	Text           string          `json:"text"`
	Timestamp      Time            `json:"timestamp"`
	IsOwn          bool            `json:"is_own"`
}

type Announcement struct {
	ID    int64  `json:"id,omitempty"`
	Event int64  `json:"event"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type SignupInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsOrganizer bool   `json:"is_organizer"`
}
