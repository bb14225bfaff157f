package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	return c.sendJSON(ctx, http.MethodGet, path, nil, v)
}

// sendJSON performs the request and decodes a 2xx body into v (if non-nil).
func (c *Client) sendJSON(ctx context.Context, method, path string, body, v any) error {
	resp, err := c.Do(ctx, method, path, body, nil)
	if err != nil {
		return err
	}
	if err := CheckResponse(resp); err != nil {
		return err
	}
	defer resp.Body.Close()
	if v == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformed, err)
	}
	return nil
}

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := CheckResponse(resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	items, err := DecodeList[T](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w: %v", path, ErrMalformed, err)
	}
	return items, nil
}

// Auth

func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.sendJSON(ctx, http.MethodPost, LoginPath, body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, LogoutPath, nil, nil)
}

func (c *Client) Signup(ctx context.Context, in SignupInput) error {
	return c.sendJSON(ctx, http.MethodPost, SignupPath, in, nil)
}

// Profile

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.getJSON(ctx, ProfilePath, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (*Profile, error) {
	var p Profile
	if err := c.sendJSON(ctx, http.MethodPatch, ProfilePath, fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UploadProfilePicture(ctx context.Context, filename string, data []byte) (*Profile, error) {
	form := NewForm().File("profile_picture", filename, data)
	var p Profile
	if err := c.sendJSON(ctx, http.MethodPatch, ProfilePath, form, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Events

func EventPath(id int64) string {
	return EventsPath + strconv.FormatInt(id, 10) + "/"
}

func (c *Client) ListEvents(ctx context.Context, mine bool) ([]Event, error) {
	path := EventsPath
	if mine {
		path += "?mine=1"
	}
	return getList[Event](ctx, c, path)
}

func (c *Client) GetEvent(ctx context.Context, id int64) (*Event, error) {
	var e Event
	if err := c.getJSON(ctx, EventPath(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	var e Event
	if err := c.sendJSON(ctx, http.MethodPost, EventsPath, in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, in EventInput) (*Event, error) {
	var e Event
	if err := c.sendJSON(ctx, http.MethodPatch, EventPath(id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteEvent succeeds only on 204 No Content.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	resp, err := c.Do(ctx, http.MethodDelete, EventPath(id), nil, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNoContent {
		resp.Body.Close()
		return nil
	}
	if err := CheckResponse(resp); err != nil {
		return err
	}
	resp.Body.Close()
	return &StatusError{Status: resp.StatusCode}
}

func (c *Client) SubmitRSVP(ctx context.Context, eventID int64, status RSVPStatus) (*RSVP, error) {
	var r RSVP
	body := map[string]any{"event": eventID, "status": status}
	if err := c.sendJSON(ctx, http.MethodPost, RSVPsPath, body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) Announce(ctx context.Context, a Announcement) error {
	return c.sendJSON(ctx, http.MethodPost, AnnouncementsPath, a, nil)
}

// Friends

func (c *Client) ListFriends(ctx context.Context) ([]Friend, error) {
	return getList[Friend](ctx, c, FriendsPath)
}

func (c *Client) ListIncomingRequests(ctx context.Context) ([]FriendRequest, error) {
	q := url.Values{"status": {string(RequestPending)}, "direction": {"incoming"}}
	return getList[FriendRequest](ctx, c, FriendRequestsPath+"?"+q.Encode())
}

func (c *Client) SendFriendRequest(ctx context.Context, username, email string) error {
	body := map[string]string{}
	if username != "" {
		body["username"] = username
	}
	if email != "" {
		body["email"] = email
	}
	return c.sendJSON(ctx, http.MethodPost, FriendRequestsPath, body, nil)
}

func requestActionPath(id int64, action string) string {
	return FriendRequestsPath + strconv.FormatInt(id, 10) + "/" + action + "/"
}

func (c *Client) ApproveRequest(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodPost, requestActionPath(id, "approve"), nil, nil)
}

func (c *Client) DeclineRequest(ctx context.Context, id int64) error {
	return c.sendJSON(ctx, http.MethodPost, requestActionPath(id, "decline"), nil, nil)
}

// Messages

func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	return getList[Conversation](ctx, c, ConversationsPath)
}

func (c *Client) ListMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	return getList[Message](ctx, c, MessagesPath+"?conversation_id="+strconv.FormatInt(conversationID, 10))
}

type OutgoingMessage struct {
	ConversationID int64  `json:"conversation_id"`
	RecipientID    int64  `json:"recipient_id,omitempty"`
	Text           string `json:"text"`
}

func (c *Client) SendMessage(ctx context.Context, m OutgoingMessage) (*Message, error) {
	var out Message
	if err := c.sendJSON(ctx, http.MethodPost, MessagesPath, m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
