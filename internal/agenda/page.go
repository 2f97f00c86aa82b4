package agenda

import (
	"time"

	"agendabuilder/internal/domain"
)

// DefaultHeaderHeight is used when an event has a header image but no height.
const DefaultHeaderHeight = "16rem"

// Page is the display model of a public agenda.
// swagger:model AgendaPage
type Page struct {
	EventID   string `json:"event_id"`
	State     string `json:"state"`
	Language  string `json:"lang"`
	RTL       bool   `json:"rtl"`
	ShareURL  string `json:"share_url"`
	Notice    string `json:"notice,omitempty"`
	EventName string `json:"event_name,omitempty"`

	Header        *Banner `json:"header,omitempty"`
	BackgroundURL string  `json:"background_url,omitempty"`
	FooterURL     string  `json:"footer_url,omitempty"`

	// Tabs are only shown when the event has more than one day.
	Tabs  []Tab      `json:"tabs,omitempty"`
	Day   *Heading   `json:"day,omitempty"`
	Slots []SlotLine `json:"slots"`

	RefreshedAt time.Time `json:"refreshed_at"`
}

type Banner struct {
	ImageURL string `json:"image_url"`
	Height   string `json:"height"`
}

type Tab struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	Selected bool   `json:"selected"`
}

type Heading struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type SlotLine struct {
	ID    string `json:"slot_id"`
	Time  string `json:"time"`
	Title string `json:"title"`
	// Presenter is empty when the slot hides its presenter.
	Presenter string `json:"presenter,omitempty"`
}

// NewPage builds the display model of view in the localizer's language.
func NewPage(view domain.AgendaView, baseURL string, l *Localizer) Page {
	p := Page{
		EventID:     view.EventID,
		State:       string(view.State),
		Language:    l.Language(),
		RTL:         l.RTL(),
		ShareURL:    ShareURL(baseURL, view.EventID),
		Slots:       []SlotLine{},
		RefreshedAt: view.RefreshedAt,
	}

	switch {
	case view.State == domain.ReaderLoading:
		p.Notice = l.Sprintf(MsgLoading)
		return p
	case view.State == domain.ReaderNotFound || view.Agenda == nil || view.Agenda.Event == nil:
		p.State = string(domain.ReaderNotFound)
		p.Notice = l.Sprintf(MsgNotFound)
		return p
	}

	ev := view.Agenda.Event
	p.EventName = ev.Name
	if ev.HeaderImageURL != "" {
		height := ev.HeaderHeight
		if height == "" {
			height = DefaultHeaderHeight
		}
		p.Header = &Banner{ImageURL: DriveDirectLink(ev.HeaderImageURL), Height: height}
	}
	p.BackgroundURL = DriveDirectLink(ev.BackgroundImageURL)
	p.FooterURL = DriveDirectLink(ev.FooterImageURL)

	days := view.Agenda.Days
	if len(days) > 1 {
		for i, d := range days {
			p.Tabs = append(p.Tabs, Tab{
				Index:    i,
				Name:     d.Name,
				Date:     FormatShortDate(d.Date),
				Selected: i == view.SelectedDay,
			})
		}
	}

	day, ok := view.Day()
	if ok {
		p.Day = &Heading{Name: day.Name, Date: FormatDate(day.Date)}
		for _, s := range day.Slots {
			line := SlotLine{
				ID:    s.ID,
				Time:  FormatTime(s.StartTime) + " - " + FormatTime(s.EndTime),
				Title: s.Title,
			}
			if s.ShowPresenter {
				line.Presenter = s.PresenterName
			}
			p.Slots = append(p.Slots, line)
		}
	}
	switch {
	case view.LastError != "":
		p.Notice = l.Sprintf(MsgStale, view.RefreshedAt.Format(time.Kitchen))
	case len(p.Slots) == 0:
		p.Notice = l.Sprintf(MsgNoSessions)
	}
	return p
}
