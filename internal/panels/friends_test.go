package panels

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kidandcat/rallypoint/internal/alerts"
)

func TestFriendsDegradeIndependently(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/friends/{$}", reply(http.StatusOK, `[{"id":3,"username":"carol"},{"id":4,"email":"dan@example.com"},{"id":5}]`))
	b.handle("GET /api/friend-requests/{$}", reply(http.StatusNotFound, `<html>not found</html>`))

	p := NewFriends(deps(b))
	if err := p.Load(context.Background()); err == nil {
		t.Fatal("expected joined error for the missing requests endpoint")
	}
	v := p.Snapshot()
	if v.FriendsState != Ready || v.IncomingState != Unavailable {
		t.Fatalf("states %v / %v", v.FriendsState, v.IncomingState)
	}
	names := []string{v.Friends[0].Name, v.Friends[1].Name, v.Friends[2].Name}
	if names[0] != "carol" || names[1] != "dan@example.com" || names[2] != "Friend" {
		t.Errorf("display names %v", names)
	}
	if len(p.FriendsAlerts.Alerts()) != 0 {
		t.Error("friends region should stay clean")
	}
	if a := onlyAlert(t, p.IncomingAlerts); a.Variant != alerts.Info || a.Message != "Friend requests aren't enabled yet." {
		t.Errorf("unexpected alert %+v", a)
	}
}

func TestFriendsUnavailable(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/friend-requests/{$}", reply(http.StatusOK, `[]`))

	p := NewFriends(deps(b))
	p.Load(context.Background())
	v := p.Snapshot()
	if v.FriendsState != Unavailable || v.IncomingState != Empty {
		t.Fatalf("states %v / %v", v.FriendsState, v.IncomingState)
	}
	if a := onlyAlert(t, p.FriendsAlerts); a.Message != "Friends features aren't enabled yet." {
		t.Errorf("unexpected alert %+v", a)
	}
}

func TestFriendsFilter(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/friends/{$}", reply(http.StatusOK, `{"results":[{"id":3,"username":"Carol"},{"id":4,"username":"dan"}]}`))
	b.handle("GET /api/friend-requests/{$}", reply(http.StatusOK, `[]`))

	p := NewFriends(deps(b))
	p.Load(context.Background())
	p.Filter("  CAR ")
	v := p.Snapshot()
	if len(v.Friends) != 1 || v.Friends[0].Name != "Carol" || v.Total != 2 {
		t.Errorf("filtered view %+v", v)
	}
}

func TestApproveRefreshesBothLists(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/friends/{$}", reply(http.StatusOK, `[]`))
	b.handle("GET /api/friend-requests/{$}", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "pending" || q.Get("direction") != "incoming" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		reply(http.StatusOK, `[{"id":9,"from_user":{"username":"erin"},"status":"pending"}]`)(w, r)
	})
	b.handle("POST /api/friend-requests/9/approve/", reply(http.StatusOK, `{}`))
	b.handle("POST /api/friend-requests/9/decline/", reply(http.StatusOK, `{}`))

	p := NewFriends(deps(b))
	p.Load(context.Background())
	if v := p.Snapshot(); len(v.Incoming) != 1 || v.Incoming[0].Name != "erin" {
		t.Fatalf("incoming %+v", v.Incoming)
	}

	if err := p.Approve(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if b.count("GET /api/friends/") != 2 || b.count("GET /api/friend-requests/") != 2 {
		t.Error("approve should refetch friends and incoming")
	}

	if err := p.Decline(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	if b.count("GET /api/friends/") != 2 || b.count("GET /api/friend-requests/") != 3 {
		t.Error("decline should refetch only incoming")
	}
	if p.RequestBusy(9) {
		t.Error("busy keys must be released")
	}
}

func TestSendFriendRequest(t *testing.T) {
	b := newBackend(t)
	b.handle("POST /api/friend-requests/{$}", reply(http.StatusCreated, `{"id":1}`))

	p := NewFriends(deps(b))
	if err := p.Send(context.Background(), "  ", ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("blank send: %v", err)
	}
	if b.total() != 0 {
		t.Fatal("blank send must not issue a request")
	}
	if a := onlyAlert(t, p.SendAlerts); a.Variant != alerts.Warning {
		t.Errorf("unexpected alert %+v", a)
	}

	p.SetForm(SendForm{Username: "frank"})
	if err := p.Send(context.Background(), "frank", ""); err != nil {
		t.Fatal(err)
	}
	if body := b.body("POST /api/friend-requests/"); body["username"] != "frank" {
		t.Errorf("body %v", body)
	} else if _, ok := body["email"]; ok {
		t.Error("blank email should be omitted")
	}
	if a := onlyAlert(t, p.SendAlerts); a.Message != "Request sent!" {
		t.Errorf("unexpected alert %+v", a)
	}
	if p.Snapshot().Form != (SendForm{}) {
		t.Error("form should reset after success")
	}
}

func TestSendFriendRequestFailure(t *testing.T) {
	b := newBackend(t)
	b.handle("POST /api/friend-requests/{$}", reply(http.StatusBadRequest, `{"non_field_errors":["You are already friends."]}`))

	p := NewFriends(deps(b))
	p.SetForm(SendForm{Username: "frank"})
	if err := p.Send(context.Background(), "frank", ""); err == nil {
		t.Fatal("expected error")
	}
	if a := onlyAlert(t, p.SendAlerts); a.Variant != alerts.Danger || a.Message != "You are already friends." {
		t.Errorf("unexpected alert %+v", a)
	}
	if p.Snapshot().Form.Username != "frank" {
		t.Error("form must be kept on failure")
	}
}
