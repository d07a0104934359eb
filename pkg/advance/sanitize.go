package advance

import "regexp"

// Field length limits, in runes.
const (
	MaxShortText  = 120 // detailName, venueName, erName, leName, roleOrg, bolo subject
	MaxPersonName = 80  // teamLead, agent and POC names
	MaxRole       = 60
	MaxAddress    = 220
	MaxPhone      = 40
	MaxComms      = 80
	MaxNotes      = 1400
	MaxPocNotes   = 500
	MaxBoloDesc   = 650
	MaxDropPoint  = 180 // also bolo lastKnown
	MaxBoloAction = 300
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// isStrippedControl reports whether r is dropped from free text.
// Tab, line feed and carriage return survive.
func isStrippedControl(r rune) bool {
	switch {
	case r <= 0x08:
		return true
	case r == 0x0B || r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	}
	return false
}

// CleanText strips control characters from s and truncates it to max runes.
// Invalid UTF-8 bytes come back as U+FFFD.
func CleanText(s string, max int) string {
	if s == "" {
		return s
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if isStrippedControl(r) {
			continue
		}
		out = append(out, r)
		if max > 0 && len(out) == max {
			break
		}
	}
	return string(out)
}

// CleanDate returns s when it is a YYYY-MM-DD date, else "".
func CleanDate(s string) string {
	if datePattern.MatchString(s) {
		return s
	}
	return ""
}

// CleanTime returns s when it is a 24-hour HH:MM time, else "".
func CleanTime(s string) string {
	if timePattern.MatchString(s) {
		return s
	}
	return ""
}

// CleanKind coerces anything that is not exactly BOLO or POI to BOLO.
func CleanKind(k string) BoloKind {
	if BoloKind(k) == KindPOI {
		return KindPOI
	}
	return KindBOLO
}

// SanitizeAgent applies per-field limits to one agent.
func SanitizeAgent(a Agent) Agent {
	return Agent{
		Name:  CleanText(a.Name, MaxPersonName),
		Role:  CleanText(a.Role, MaxRole),
		Phone: CleanText(a.Phone, MaxPhone),
	}
}

// SanitizePoc applies per-field limits to one point of contact.
func SanitizePoc(p Poc) Poc {
	return Poc{
		Name:    CleanText(p.Name, MaxPersonName),
		RoleOrg: CleanText(p.RoleOrg, MaxShortText),
		Phone:   CleanText(p.Phone, MaxPhone),
		Notes:   CleanText(p.Notes, MaxPocNotes),
	}
}

// SanitizeBoloPoi applies per-field limits and the type whitelist.
func SanitizeBoloPoi(b BoloPoi) BoloPoi {
	return BoloPoi{
		Type:        CleanKind(string(b.Type)),
		Subject:     CleanText(b.Subject, MaxShortText),
		Description: CleanText(b.Description, MaxBoloDesc),
		LastKnown:   CleanText(b.LastKnown, MaxDropPoint),
		Action:      CleanText(b.Action, MaxBoloAction),
	}
}

// textField binds a top-level string field to its limit.
type textField struct {
	name  string
	limit int
	get   func(*Advance) *string
}

// textFields lists every top-level free-text field. date and the time
// fields are pattern checked instead.
var textFields = []textField{
	{"detailName", MaxShortText, func(a *Advance) *string { return &a.DetailName }},
	{"venueName", MaxShortText, func(a *Advance) *string { return &a.VenueName }},
	{"address", MaxAddress, func(a *Advance) *string { return &a.Address }},
	{"alphaArrival", MaxDropPoint, func(a *Advance) *string { return &a.AlphaArrival }},
	{"alphaDeparture", MaxDropPoint, func(a *Advance) *string { return &a.AlphaDeparture }},
	{"bravoArrival", MaxDropPoint, func(a *Advance) *string { return &a.BravoArrival }},
	{"bravoDeparture", MaxDropPoint, func(a *Advance) *string { return &a.BravoDeparture }},
	{"teamLead", MaxPersonName, func(a *Advance) *string { return &a.TeamLead }},
	{"primaryComms", MaxComms, func(a *Advance) *string { return &a.PrimaryComms }},
	{"secondaryComms", MaxComms, func(a *Advance) *string { return &a.SecondaryComms }},
	{"codeWords", MaxComms, func(a *Advance) *string { return &a.CodeWords }},
	{"erName", MaxShortText, func(a *Advance) *string { return &a.ERName }},
	{"erAddress", MaxAddress, func(a *Advance) *string { return &a.ERAddress }},
	{"erPhone", MaxPhone, func(a *Advance) *string { return &a.ERPhone }},
	{"leName", MaxShortText, func(a *Advance) *string { return &a.LEName }},
	{"leAddress", MaxAddress, func(a *Advance) *string { return &a.LEAddress }},
	{"lePhone", MaxPhone, func(a *Advance) *string { return &a.LEPhone }},
	{"notes", MaxNotes, func(a *Advance) *string { return &a.Notes }},
}

var timeFields = []textField{
	{"timeOn", 5, func(a *Advance) *string { return &a.TimeOn }},
	{"timeOff", 5, func(a *Advance) *string { return &a.TimeOff }},
	{"arrivalTime", 5, func(a *Advance) *string { return &a.ArrivalTime }},
	{"departTime", 5, func(a *Advance) *string { return &a.DepartTime }},
}

// Sanitize applies every field rule to a typed record. It does not merge
// defaults; empty lists stay empty.
func Sanitize(a Advance) Advance {
	out := a.Clone()
	for _, f := range textFields {
		p := f.get(&out)
		*p = CleanText(*p, f.limit)
	}
	for _, f := range timeFields {
		p := f.get(&out)
		*p = CleanTime(*p)
	}
	out.Date = CleanDate(out.Date)
	for i := range out.Agents {
		out.Agents[i] = SanitizeAgent(out.Agents[i])
	}
	for i := range out.Pocs {
		out.Pocs[i] = SanitizePoc(out.Pocs[i])
	}
	for i := range out.BoloPois {
		out.BoloPois[i] = SanitizeBoloPoi(out.BoloPois[i])
	}
	return out
}
