package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/courtbook/internal/model"
	"github.com/mcoot/courtbook/internal/services/session"
	"github.com/mcoot/courtbook/internal/views"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionInfo:
		o.printSession(v)
	case views.HomePage:
		o.printHome(v)
	case []model.Court:
		o.printCourts(v)
	case model.Court:
		o.printCourts([]model.Court{v})
	case views.BookingPage:
		o.printBookingPage(v)
	case model.Reservation:
		o.printReservation(v)
	case []model.Reservation:
		o.printReservations(v)
	case views.AdminPage:
		o.printAdminPage(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// SessionInfo is the printable part of a session. The credential is never shown.
type SessionInfo struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Next          string `json:"next,omitempty"`
}

func newSessionInfo(sess session.Session, next string) SessionInfo {
	info := SessionInfo{
		Authenticated: sess.IsAuthenticated(),
		Role:          string(sess.Role()),
		Next:          next,
	}
	if sess.Identity != nil {
		info.Name = sess.Identity.Name
		info.Email = sess.Identity.Email
	}
	return info
}

func (o *Output) printSession(s SessionInfo) {
	if !s.Authenticated {
		fmt.Fprintln(o.out, "Not logged in")
		return
	}
	fmt.Fprintf(o.out, "Logged in as %s <%s>\n", s.Name, s.Email)
	fmt.Fprintf(o.out, "Role: %s\n", s.Role)
	if s.Next != "" {
		fmt.Fprintf(o.out, "Next: %s\n", s.Next)
	}
}

func (o *Output) printHome(h views.HomePage) {
	fmt.Fprintln(o.out, h.Greeting)
	labels := make([]string, len(h.Nav))
	for i, n := range h.Nav {
		labels[i] = n.Label
	}
	fmt.Fprintf(o.out, "Menu: %s\n", strings.Join(labels, " | "))
}

func (o *Output) printCourts(courts []model.Court) {
	if len(courts) == 0 {
		fmt.Fprintln(o.out, "No courts")
		return
	}
	tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tSURFACE\tSTATUS")
	for _, c := range courts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, orDash(c.Location), c.DisplaySurface(), orDash(c.Status))
	}
	_ = tw.Flush()
}

func (o *Output) printBookingPage(p views.BookingPage) {
	c := p.Candidate
	fmt.Fprintf(o.out, "Court: %s\n", orDash(courtName(p.Courts, c.CourtID)))
	fmt.Fprintf(o.out, "Date: %s\n", orDash(c.Date))
	fmt.Fprintf(o.out, "Time: %s\n", orDash(c.Time))
	fmt.Fprintf(o.out, "Group size: %d\n", c.GroupSize)
	if c.Notes != "" {
		fmt.Fprintf(o.out, "Notes: %s\n", c.Notes)
	}
	fmt.Fprintln(o.out, p.StatusMessage)
	if p.CanSubmit {
		fmt.Fprintln(o.out, "Ready to submit")
	} else {
		fmt.Fprintf(o.out, "Cannot submit: %s\n", p.Blocked)
	}
}

func (o *Output) printReservation(r model.Reservation) {
	fmt.Fprintf(o.out, "Reservation: %s\n", r.Key())
	fmt.Fprintf(o.out, "Court: %s\n", r.CourtLabel())
	fmt.Fprintf(o.out, "When: %s %s\n", r.Date, r.Time)
	fmt.Fprintf(o.out, "Group size: %d\n", r.GroupSize)
	fmt.Fprintf(o.out, "Status: %s\n", r.Status)
	if len(r.Players) > 0 {
		fmt.Fprintf(o.out, "Players: %s\n", strings.Join(r.Players, ", "))
	}
	if r.Notes != "" {
		fmt.Fprintf(o.out, "Notes: %s\n", r.Notes)
	}
}

func (o *Output) printReservations(rs []model.Reservation) {
	if len(rs) == 0 {
		fmt.Fprintln(o.out, "No reservations")
		return
	}
	tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOURT\tDATE\tTIME\tPLAYERS\tSTATUS")
	for _, r := range rs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", r.Key(), r.CourtLabel(), orDash(r.Date), orDash(r.Time), r.GroupSize, r.Status)
	}
	_ = tw.Flush()
}

func (o *Output) printAdminPage(p views.AdminPage) {
	fmt.Fprintf(o.out, "Courts (%d):\n", len(p.Courts))
	o.printCourts(p.Courts)
	fmt.Fprintln(o.out)

	s := p.Summary
	fmt.Fprintf(o.out, "Reservations (%d total, %d confirmed, %d pending, %d invalid):\n", s.Total, s.Confirmed, s.Pending, s.Invalid)
	o.printReservations(p.Reservations)
}

func courtName(courts []model.Court, id string) string {
	for _, c := range courts {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
