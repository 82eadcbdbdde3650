package report

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/HanSoulEater/trello-weekly-report/internal/trello"
)

// Report is the rendered weekly summary, ready for delivery.
type Report struct {
	Title string
	Body  string
}

// EmptyBody is the report body when no checklist items were completed.
const EmptyBody = "No completed checklist items found for the specified week."

const (
	completeState = "complete"
	untitledCard  = "Untitled"
	cardURLFormat = "https://trello.com/c/%s"
)

type completion struct {
	date string // raw timestamp from the feed, may be empty
	item string
}

type cardGroup struct {
	id          string
	name        string
	url         string
	completions []completion
}

// Build filters the action feed down to completed checklist items, groups
// them per card and renders the report text. Completion timestamps are shown
// in loc; the raw string is shown when it cannot be parsed.
func Build(actions []trello.Action, w Window, loc *time.Location) Report {
	title := fmt.Sprintf("Report of completed checklist items: %s — %s",
		w.Start.Format("2006-01-02"), w.LastDay().Format("2006-01-02"))

	groups := groupCompletions(actions)
	if len(groups) == 0 {
		return Report{Title: title, Body: EmptyBody}
	}

	var b strings.Builder
	for _, g := range groups {
		b.WriteString(g.header())
		b.WriteString("\n")
		for _, c := range g.completions {
			fmt.Fprintf(&b, " — %s — %s\n", formatLocal(c.date, loc), html.EscapeString(c.item))
		}
		b.WriteString("\n") // separator between cards
	}

	return Report{Title: title, Body: strings.TrimSpace(b.String())}
}

// groupCompletions keeps only actions whose checklist item reached the
// complete state and groups them per card. Cards come back ordered by
// case-insensitive name, each card's completions in chronological order.
func groupCompletions(actions []trello.Action) []*cardGroup {
	byCard := make(map[string]*cardGroup)
	var cardIDs []string

	for _, a := range actions {
		if a.Data.CheckItem.State != completeState {
			continue
		}

		card := a.Data.Card
		group, ok := byCard[card.ID]
		if !ok {
			group = &cardGroup{
				id:   card.ID,
				name: card.Name,
				url:  cardURL(card.ShortLink),
			}
			if group.name == "" {
				group.name = untitledCard
			}
			byCard[card.ID] = group
			cardIDs = append(cardIDs, card.ID)
		}

		group.completions = append(group.completions, completion{
			date: a.Date,
			item: a.Data.CheckItem.Name,
		})
	}

	groups := make([]*cardGroup, 0, len(cardIDs))
	for _, id := range cardIDs {
		groups = append(groups, byCard[id])
	}

	fold := cases.Fold()
	sort.Slice(groups, func(i, j int) bool {
		ni, nj := fold.String(groups[i].name), fold.String(groups[j].name)
		if ni != nj {
			return ni < nj
		}
		return groups[i].id < groups[j].id
	})

	for _, g := range groups {
		sort.Slice(g.completions, func(i, j int) bool {
			if g.completions[i].date != g.completions[j].date {
				return g.completions[i].date < g.completions[j].date
			}
			return g.completions[i].item < g.completions[j].item
		})
	}

	return groups
}

// header renders the card line. Names are escaped because the message is
// delivered with HTML parsing enabled.
func (g *cardGroup) header() string {
	name := html.EscapeString(g.name)
	if g.url == "" {
		return "🔹 " + name
	}
	return fmt.Sprintf(`🔹 <a href="%s">%s</a>`, g.url, name)
}

func cardURL(shortLink string) string {
	if shortLink == "" {
		return ""
	}
	return fmt.Sprintf(cardURLFormat, shortLink)
}

func formatLocal(iso string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
