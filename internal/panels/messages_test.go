package panels

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/kidandcat/rallypoint/internal/alerts"
)

const conversationsJSON = `[
	{"id":10,"user_id":7,"friend":{"id":3,"username":"carol"},"last_message":{"text":"see you","timestamp":"2025-06-01T11:55:00Z"},"unread_count":2},
	{"id":11,"user_id":7,"friend":{"id":4,"username":"dan"},"last_message":null,"updated_at":"2025-05-20T08:00:00Z"}
]`

func TestConversationList(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/conversations/{$}", reply(http.StatusOK, conversationsJSON))

	p := NewMessages(deps(b))
	if err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	v := p.Snapshot()
	if len(v.Conversations) != 2 {
		t.Fatalf("conversations %+v", v.Conversations)
	}
	carol, dan := v.Conversations[0], v.Conversations[1]
	if carol.Name != "carol" || carol.Preview != "see you" || carol.When != "5m ago" || carol.Unread != 2 {
		t.Errorf("carol %+v", carol)
	}
	if dan.Preview != "No messages yet" || dan.When != "May 20, 2025" {
		t.Errorf("dan %+v", dan)
	}

	p.Filter("DAN")
	if v := p.Snapshot(); len(v.Conversations) != 1 || v.Conversations[0].ID != 11 {
		t.Errorf("filter %+v", v.Conversations)
	}
}

func TestMessagingUnavailable(t *testing.T) {
	b := newBackend(t)

	p := NewMessages(deps(b))
	p.Load(context.Background())
	if p.Snapshot().State != Unavailable {
		t.Error("expected unavailable")
	}
	if a := onlyAlert(t, p.Alerts); a.Variant != alerts.Info || a.Message != "Messaging features aren't enabled yet." {
		t.Errorf("unexpected alert %+v", a)
	}
}

func TestOpenSortsAndAligns(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/conversations/{$}", reply(http.StatusOK, conversationsJSON))
	b.handle("GET /api/messages/{$}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("conversation_id") != "10" {
			t.Errorf("query %q", r.URL.RawQuery)
		}
		reply(http.StatusOK, `{"results":[
			{"id":2,"sender_id":7,"text":"second","timestamp":"2025-06-01T11:30:00Z"},
			{"id":1,"sender_id":3,"text":"first","timestamp":"2025-06-01T09:00:00Z"},
			{"id":3,"sender_id":3,"text":"third","timestamp":"2025-06-01T11:59:40Z","is_own":true}
		]}`)(w, r)
	})

	p := NewMessages(deps(b))
	p.Load(context.Background())
	if err := p.Open(context.Background(), 99); err != ErrNoConversation {
		t.Errorf("unknown conversation: %v", err)
	}
	if err := p.Open(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	v := p.Snapshot()
	if v.Current == nil || v.Current.Name != "carol" || !v.Current.Active {
		t.Fatalf("current %+v", v.Current)
	}
	want := []struct {
		text string
		own  bool
		when string
	}{
		{"first", false, "3h ago"},
		{"second", true, "30m ago"},
		{"third", true, "Just now"},
	}
	if len(v.Thread) != len(want) {
		t.Fatalf("thread %+v", v.Thread)
	}
	for i, w := range want {
		got := v.Thread[i]
		if got.Text != w.text || got.Own != w.own || got.When != w.when {
			t.Errorf("bubble %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestSendEmptyIsNoop(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/conversations/{$}", reply(http.StatusOK, conversationsJSON))
	b.handle("GET /api/messages/{$}", reply(http.StatusOK, `[]`))

	p := NewMessages(deps(b))
	if err := p.Send(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	p.Load(context.Background())
	p.Open(context.Background(), 10)
	if err := p.Send(context.Background(), "   \n"); err != nil {
		t.Fatal(err)
	}
	if n := b.count("POST /api/messages/"); n != 0 {
		t.Errorf("expected no send requests, got %d", n)
	}
}

func TestSendAppendsBeforeRefetch(t *testing.T) {
	b := newBackend(t)
	p := NewMessages(deps(b))

	var bubblesAtRefetch atomic.Int32
	bubblesAtRefetch.Store(-1)
	b.handle("GET /api/conversations/{$}", func(w http.ResponseWriter, r *http.Request) {
		if b.count("POST /api/messages/") > 0 {
			v := p.Snapshot()
			bubblesAtRefetch.Store(int32(len(v.Thread)))
			if len(v.Thread) == 1 && !v.Thread[0].Own {
				t.Error("appended bubble must be own")
			}
		}
		reply(http.StatusOK, conversationsJSON)(w, r)
	})
	b.handle("GET /api/messages/{$}", reply(http.StatusOK, `[]`))
	b.handle("POST /api/messages/{$}", reply(http.StatusCreated, `{"id":50,"conversation_id":10,"sender_id":7,"text":"hello","timestamp":"2025-06-01T12:00:00Z"}`))

	p.Load(context.Background())
	p.Open(context.Background(), 10)
	if err := p.Send(context.Background(), "  hello "); err != nil {
		t.Fatal(err)
	}

	if n := bubblesAtRefetch.Load(); n != 1 {
		t.Errorf("expected one bubble before the refetch was served, saw %d", n)
	}
	body := b.body("POST /api/messages/")
	if body["text"] != "hello" || body["conversation_id"] != float64(10) || body["recipient_id"] != float64(3) {
		t.Errorf("send body %v", body)
	}
	if v := p.Snapshot(); len(v.Thread) != 1 || v.Thread[0].Text != "hello" {
		t.Errorf("thread after send %+v", v.Thread)
	}
	if b.count("GET /api/conversations/") != 2 {
		t.Error("conversations should be refetched once after sending")
	}
	if p.SendBusy() {
		t.Error("busy key must be released")
	}
}

func TestSendKeepsConversationsWhenRefetchFails(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/conversations/{$}", func(w http.ResponseWriter, r *http.Request) {
		if b.count("GET /api/conversations/") > 1 {
			reply(http.StatusServiceUnavailable, `{"detail":"down"}`)(w, r)
			return
		}
		reply(http.StatusOK, conversationsJSON)(w, r)
	})
	b.handle("GET /api/messages/{$}", reply(http.StatusOK, `[]`))
	b.handle("POST /api/messages/{$}", reply(http.StatusCreated, `{"id":50,"conversation_id":10,"sender_id":7,"text":"hello","timestamp":"2025-06-01T12:00:00Z"}`))

	p := NewMessages(deps(b))
	if err := p.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	p.Open(context.Background(), 10)
	if err := p.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send succeeded on the server, got %v", err)
	}

	v := p.Snapshot()
	if v.State != Ready || len(v.Conversations) != 2 {
		t.Errorf("list must survive a failed refetch: state %v, %d conversations", v.State, len(v.Conversations))
	}
	if v.Current == nil || v.Current.ID != 10 || len(v.Thread) != 1 || !v.Thread[0].Own {
		t.Errorf("open thread after send %+v %+v", v.Current, v.Thread)
	}
	if got := p.Alerts.Alerts(); len(got) != 0 {
		t.Errorf("no alert expected for a background refetch, got %+v", got)
	}
	if b.count("GET /api/conversations/") != 2 {
		t.Error("conversations should be refetched once after sending")
	}
}

func TestSendFailure(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/conversations/{$}", reply(http.StatusOK, conversationsJSON))
	b.handle("GET /api/messages/{$}", reply(http.StatusOK, `[]`))
	b.handle("POST /api/messages/{$}", reply(http.StatusBadRequest, `{"text":["Ensure this field has no more than 2000 characters."]}`))

	p := NewMessages(deps(b))
	p.Load(context.Background())
	p.Open(context.Background(), 10)
	if err := p.Send(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}
	if len(p.Snapshot().Thread) != 0 {
		t.Error("failed send must not append")
	}
	if a := onlyAlert(t, p.Alerts); a.Variant != alerts.Danger {
		t.Errorf("unexpected alert %+v", a)
	}
}
