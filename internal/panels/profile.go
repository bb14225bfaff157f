package panels

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/kidandcat/rallypoint/internal/alerts"
	"github.com/kidandcat/rallypoint/internal/api"
)

// MaxPictureBytes caps profile picture uploads before they are sent.
const MaxPictureBytes = 5_000_000

type ProfileView struct {
	Available bool
	Username  string
	FullName  string
	Email     string
	Role      string
	About     string
	// AboutRaw is the editable value; About carries the display fallback.
	AboutRaw            string
	Picture             string
	NotificationsOptOut bool
}

// Profile shows the caller's own profile and edits it.
type Profile struct {
	deps   Deps
	Alerts *alerts.Region
	Busy   Busy

	mu      sync.Mutex
	profile *api.Profile
}

func NewProfile(d Deps) *Profile {
	return &Profile{deps: d, Busy: newBusy(d), Alerts: alerts.NewRegion("profile"), profile: d.Session.Profile}
}

func (p *Profile) Name() string { return "profile" }

// Load uses the profile the session probe already fetched.
func (p *Profile) Load(ctx context.Context) error {
	if !p.deps.Session.Authenticated {
		p.Alerts.Warning("Please log in to view your profile.")
	}
	return nil
}

func (p *Profile) Snapshot() ProfileView {
	p.mu.Lock()
	defer p.mu.Unlock()
	pr := p.profile
	if pr == nil || !p.deps.Session.Authenticated {
		return ProfileView{}
	}
	v := ProfileView{
		Available:           true,
		Username:            pr.User.Username,
		FullName:            strings.TrimSpace(pr.User.FirstName + " " + pr.User.LastName),
		Email:               pr.User.Email,
		Role:                "Guest",
		About:               pr.AboutMe,
		AboutRaw:            pr.AboutMe,
		Picture:             pr.ProfilePicture,
		NotificationsOptOut: pr.NotificationsOptOut,
	}
	if v.Email == "" {
		v.Email = "Not provided"
	}
	if pr.IsOrganizer {
		v.Role = "Organizer"
	}
	if strings.TrimSpace(v.About) == "" {
		v.About = "No information provided yet."
	}
	return v
}

func (p *Profile) set(pr *api.Profile) {
	p.mu.Lock()
	p.profile = pr
	p.mu.Unlock()
}

func (p *Profile) SaveBusy() bool { return p.Busy.Active("about") || p.Busy.Active("settings") }

func (p *Profile) SaveAbout(ctx context.Context, about string) error {
	if !p.Busy.Begin("about") {
		return ErrBusy
	}
	defer p.Busy.End("about")

	pr, err := p.deps.Client.UpdateProfile(ctx, map[string]any{"about_me": strings.TrimSpace(about)})
	if err != nil {
		reportFailure(p.deps.logger(), p.Alerts, err, "Failed to update About Me. Please try again.")
		return err
	}
	p.set(pr)
	p.Alerts.Success("About Me updated successfully!")
	return nil
}

// SetNotifications stores whether the caller opts out of event emails.
func (p *Profile) SetNotifications(ctx context.Context, optOut bool) error {
	if !p.Busy.Begin("settings") {
		return ErrBusy
	}
	defer p.Busy.End("settings")

	pr, err := p.deps.Client.UpdateProfile(ctx, map[string]any{"notifications_opt_out": optOut})
	if err != nil {
		reportFailure(p.deps.logger(), p.Alerts, err, "Failed to save your settings. Please try again.")
		return err
	}
	p.set(pr)
	p.Alerts.Success("Settings saved.")
	return nil
}

func (p *Profile) UploadBusy() bool { return p.Busy.Active("picture") }

// UploadPicture sends a new profile picture. Empty and oversized files are
// rejected without a request.
func (p *Profile) UploadPicture(ctx context.Context, filename string, data []byte) error {
	if len(data) == 0 {
		p.Alerts.Warning("Please select a file first.")
		return ErrInvalid
	}
	if len(data) > MaxPictureBytes {
		p.Alerts.Warning(fmt.Sprintf("That file is %s. Pictures must be %s or smaller.",
			humanize.Bytes(uint64(len(data))), humanize.Bytes(MaxPictureBytes)))
		return ErrInvalid
	}
	if !p.Busy.Begin("picture") {
		return ErrBusy
	}
	defer p.Busy.End("picture")

	pr, err := p.deps.Client.UploadProfilePicture(ctx, filename, data)
	if err != nil {
		reportFailure(p.deps.logger(), p.Alerts, err, "Failed to update profile picture. Please try again.")
		return err
	}
	p.set(pr)
	p.Alerts.Success("Profile picture updated successfully!")
	return nil
}
