package panels

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
)

const (
	friendsDisabled  = "Friends features aren't enabled yet."
	requestsDisabled = "Friend requests aren't enabled yet."
)

// Friend tabs, addressed by URL fragment as friends-<tab>.
const (
	TabList     = "list"
	TabSend     = "send"
	TabIncoming = "incoming"
)

var FriendTabs = []string{TabList, TabSend, TabIncoming}

type FriendItem struct {
	ID      int64
	Name    string
	Picture string
}

type RequestItem struct {
	ID   int64
	Name string
}

// SendForm is the friend request form's current input.
type SendForm struct {
	Username string
	Email    string
}

type FriendsView struct {
	FriendsState  ListState
	Friends       []FriendItem
	Total         int
	Filter        string
	IncomingState ListState
	Incoming      []RequestItem
	Form          SendForm
}

// Friends covers the friends list, incoming requests, and the send form.
// Each part degrades on its own.
type Friends struct {
	deps           Deps
	FriendsAlerts  *alerts.Region
	IncomingAlerts *alerts.Region
	SendAlerts     *alerts.Region
	Busy           Busy

	mu            sync.Mutex
	friendsState  ListState
	friends       []api.Friend
	incomingState ListState
	incoming      []api.FriendRequest
	filter        string
	form          SendForm
}

func NewFriends(d Deps) *Friends {
	return &Friends{
		deps:           d,
		Busy:           newBusy(d),
		FriendsAlerts:  alerts.NewRegion("friends"),
		IncomingAlerts: alerts.NewRegion("friend-incoming"),
		SendAlerts:     alerts.NewRegion("friend-send"),
	}
}

func (p *Friends) Name() string { return "friends" }

func (p *Friends) Load(ctx context.Context) error {
	return errors.Join(p.refreshFriends(ctx), p.refreshIncoming(ctx))
}

func (p *Friends) refreshFriends(ctx context.Context) error {
	friends, err := p.deps.Client.ListFriends(ctx)
	p.mu.Lock()
	prev := p.friendsState
	if err != nil {
		p.friendsState = Unavailable
	} else {
		p.friends = friends
		p.friendsState = stateFor(len(friends))
	}
	p.mu.Unlock()

	switch {
	case err != nil:
		p.FriendsAlerts.Info(friendsDisabled)
	case prev == Unavailable:
		p.FriendsAlerts.Clear()
	}
	return err
}

func (p *Friends) refreshIncoming(ctx context.Context) error {
	reqs, err := p.deps.Client.ListIncomingRequests(ctx)
	p.mu.Lock()
	if err != nil {
		p.incomingState = Unavailable
	} else {
		p.incoming = reqs
		p.incomingState = stateFor(len(reqs))
	}
	p.mu.Unlock()

	if err != nil {
		p.IncomingAlerts.Info(requestsDisabled)
	}
	return err
}

func (p *Friends) Snapshot() FriendsView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := FriendsView{
		FriendsState:  p.friendsState,
		Total:         len(p.friends),
		Filter:        p.filter,
		IncomingState: p.incomingState,
		Form:          p.form,
	}
	q := strings.ToLower(strings.TrimSpace(p.filter))
	for _, f := range p.friends {
		name := f.DisplayName()
		if q != "" && !strings.Contains(strings.ToLower(name), q) {
			continue
		}
		v.Friends = append(v.Friends, FriendItem{ID: f.ID, Name: name, Picture: f.ProfilePicture})
	}
	for _, r := range p.incoming {
		v.Incoming = append(v.Incoming, RequestItem{ID: r.ID, Name: r.DisplayName()})
	}
	return v
}

// Filter narrows the rendered friends list by display name.
func (p *Friends) Filter(q string) {
	p.mu.Lock()
	p.filter = q
	p.mu.Unlock()
}

func (p *Friends) SetForm(f SendForm) {
	p.mu.Lock()
	p.form = f
	p.mu.Unlock()
}

func requestKey(action string, id int64) string {
	return action + ":" + strconv.FormatInt(id, 10)
}

func (p *Friends) RequestBusy(id int64) bool {
	return p.Busy.Active(requestKey("approve", id)) || p.Busy.Active(requestKey("decline", id))
}

func (p *Friends) SendBusy() bool { return p.Busy.Active("send") }

// Approve accepts a request and refreshes both lists, since the sender is
// now a friend.
func (p *Friends) Approve(ctx context.Context, id int64) error {
	key := requestKey("approve", id)
	if !p.Busy.Begin(key) {
		return ErrBusy
	}
	defer p.Busy.End(key)

	if err := p.deps.Client.ApproveRequest(ctx, id); err != nil {
		reportFailure(p.deps.logger(), p.IncomingAlerts, err, "Unable to approve request (feature not enabled).")
		return err
	}
	p.IncomingAlerts.Success("Friend request approved.")
	p.refreshFriends(ctx)
	p.refreshIncoming(ctx)
	return nil
}

func (p *Friends) Decline(ctx context.Context, id int64) error {
	key := requestKey("decline", id)
	if !p.Busy.Begin(key) {
		return ErrBusy
	}
	defer p.Busy.End(key)

	if err := p.deps.Client.DeclineRequest(ctx, id); err != nil {
		reportFailure(p.deps.logger(), p.IncomingAlerts, err, "Unable to decline request (feature not enabled).")
		return err
	}
	p.IncomingAlerts.Success("Friend request declined.")
	p.refreshIncoming(ctx)
	return nil
}

// Send submits a friend request by username or email. The form resets on
// success.
func (p *Friends) Send(ctx context.Context, username, email string) error {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" && email == "" {
		p.SendAlerts.Warning("Please enter a username or email.")
		return ErrInvalid
	}
	if !p.Busy.Begin("send") {
		return ErrBusy
	}
	defer p.Busy.End("send")

	if err := p.deps.Client.SendFriendRequest(ctx, username, email); err != nil {
		reportFailure(p.deps.logger(), p.SendAlerts, err, "Unable to send request (feature not enabled).")
		return err
	}
	p.SetForm(SendForm{})
	p.SendAlerts.Success("Request sent!")
	return nil
}
