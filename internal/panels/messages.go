package panels

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/timefmt"
)

const messagingDisabled = "Messaging features aren't enabled yet."

var ErrNoConversation = errors.New("conversation not found")

type ConversationItem struct {
	ID      int64
	Name    string
	Picture string
	Preview string
	When    string
	Unread  int
	Active  bool
}

// Bubble is one rendered message. Own bubbles align right.
type Bubble struct {
	ID   int64
	Text string
	Own  bool
	When string
}

type MessagesView struct {
	State         ListState
	Conversations []ConversationItem
	Filter        string
	// Current is nil until a conversation is opened.
	Current     *ConversationItem
	ThreadState ListState
	Thread      []Bubble
}

// Messages is the conversation list plus the open thread.
type Messages struct {
	deps   Deps
	Alerts *alerts.Region
	Busy   Busy

	mu            sync.Mutex
	state         ListState
	conversations []api.Conversation
	filter        string
	current       *api.Conversation
	threadState   ListState
	thread        []api.Message
}

func NewMessages(d Deps) *Messages {
	return &Messages{deps: d, Busy: newBusy(d), Alerts: alerts.NewRegion("messages")}
}

func (p *Messages) Name() string { return "messages" }

func (p *Messages) Load(ctx context.Context) error {
	convs, err := p.deps.Client.ListConversations(ctx)
	if err != nil {
		p.mu.Lock()
		p.state = Unavailable
		p.mu.Unlock()
		p.Alerts.Info(messagingDisabled)
		return err
	}
	p.mu.Lock()
	p.conversations = convs
	p.state = stateFor(len(convs))
	p.mu.Unlock()
	return nil
}

func (p *Messages) Filter(q string) {
	p.mu.Lock()
	p.filter = q
	p.mu.Unlock()
}

// Open loads the thread of a listed conversation. A response arriving after
// another conversation was opened is dropped.
func (p *Messages) Open(ctx context.Context, id int64) error {
	p.mu.Lock()
	var conv *api.Conversation
	for i := range p.conversations {
		if p.conversations[i].ID == id {
			c := p.conversations[i]
			conv = &c
			break
		}
	}
	if conv == nil {
		p.mu.Unlock()
		return ErrNoConversation
	}
	p.current = conv
	p.thread = nil
	p.threadState = Loading
	p.mu.Unlock()

	msgs, err := p.deps.Client.ListMessages(ctx, id)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.current.ID != id {
		return nil
	}
	if err != nil {
		p.threadState = Unavailable
		p.deps.logger().Warn("messages unavailable", "panel", p.Name(), "error", err)
		return err
	}
	sortMessages(msgs)
	p.thread = msgs
	p.threadState = stateFor(len(msgs))
	return nil
}

func sortMessages(msgs []api.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp.Time)
	})
}

func (p *Messages) SendBusy() bool { return p.Busy.Active("send") }

// Send posts text to the open conversation. Blank text, or no open
// conversation, is a no-op. The confirmed message is appended to the thread
// before the conversation list is refetched.
func (p *Messages) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	p.mu.Lock()
	conv := p.current
	p.mu.Unlock()
	if text == "" || conv == nil {
		return nil
	}
	if !p.Busy.Begin("send") {
		return ErrBusy
	}
	defer p.Busy.End("send")

	msg, err := p.deps.Client.SendMessage(ctx, api.OutgoingMessage{
		ConversationID: conv.ID,
		RecipientID:    conv.FriendID(),
		Text:           text,
	})
	if err != nil {
		reportFailure(p.deps.logger(), p.Alerts, err, "Unable to send message (feature not enabled).")
		return err
	}

	msg.IsOwn = true
	p.mu.Lock()
	if p.current != nil && p.current.ID == conv.ID {
		p.thread = append(p.thread, *msg)
		p.threadState = Ready
	}
	p.mu.Unlock()

	p.refresh(ctx)
	return nil
}

// refresh refetches the conversation list after a send. A failed refetch
// keeps the list and state the panel already had.
func (p *Messages) refresh(ctx context.Context) {
	convs, err := p.deps.Client.ListConversations(ctx)
	if err != nil {
		p.deps.logger().Warn("refetch failed", "panel", p.Name(), "error", err)
		return
	}
	p.mu.Lock()
	p.conversations = convs
	p.state = stateFor(len(convs))
	if p.current != nil {
		for i := range convs {
			if convs[i].ID == p.current.ID {
				c := convs[i]
				p.current = &c
				break
			}
		}
	}
	p.mu.Unlock()
}

func (p *Messages) Snapshot() MessagesView {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.deps.now()
	v := MessagesView{
		State:       p.state,
		Filter:      p.filter,
		ThreadState: p.threadState,
	}
	q := strings.ToLower(strings.TrimSpace(p.filter))
	for _, c := range p.conversations {
		item := p.conversationItem(c, now)
		if q != "" && !strings.Contains(strings.ToLower(item.Name+" "+item.Preview), q) {
			continue
		}
		v.Conversations = append(v.Conversations, item)
	}
	if p.current != nil {
		item := p.conversationItem(*p.current, now)
		v.Current = &item
		for _, m := range p.thread {
			v.Thread = append(v.Thread, Bubble{
				ID:   m.ID,
				Text: m.Text,
				Own:  p.isOwn(m, *p.current),
				When: timefmt.Relative(m.Timestamp.Time, now),
			})
		}
	}
	return v
}

func (p *Messages) conversationItem(c api.Conversation, now time.Time) ConversationItem {
	item := ConversationItem{
		ID:      c.ID,
		Name:    c.DisplayName(),
		Unread:  c.UnreadCount,
		Preview: "No messages yet",
		Active:  p.current != nil && p.current.ID == c.ID,
	}
	if c.Friend != nil {
		item.Picture = c.Friend.ProfilePicture
	}
	when := c.UpdatedAt.Time
	if lm := c.LastMessage; lm != nil {
		if lm.Text != "" {
			item.Preview = lm.Text
		}
		if !lm.Timestamp.IsZero() {
			when = lm.Timestamp.Time
		}
	}
	item.When = timefmt.Relative(when, now)
	return item
}

// isOwn compares the sender with the caller id embedded in the
// conversation, falling back to the session's user.
func (p *Messages) isOwn(m api.Message, c api.Conversation) bool {
	if m.IsOwn {
		return true
	}
	me := c.UserID
	if me == 0 {
		me = p.deps.Session.UserID()
	}
	return me != 0 && m.SenderID == me
}
