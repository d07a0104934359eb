package advance

// Agent is one member of the protective detail.
type Agent struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// Poc is a point of contact at the venue or in support of the detail.
type Poc struct {
	Name    string `json:"name"`
	RoleOrg string `json:"roleOrg,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// BoloKind tags a BoloPoi entry.
type BoloKind string

const (
	KindBOLO BoloKind = "BOLO"
	KindPOI  BoloKind = "POI"
)

// BoloPoi is a "be on the lookout" subject or a point of interest.
type BoloPoi struct {
	Type        BoloKind `json:"type"`
	Subject     string   `json:"subject"`
	Description string   `json:"description,omitempty"`
	LastKnown   string   `json:"lastKnown,omitempty"`
	Action      string   `json:"action,omitempty"`
}

// Advance is the single planning record the tool manages.
type Advance struct {
	DetailName string `json:"detailName"`
	Date       string `json:"date"`

	VenueName string `json:"venueName"`
	Address   string `json:"address"`

	TimeOn  string `json:"timeOn"`
	TimeOff string `json:"timeOff"`

	ArrivalTime string `json:"arrivalTime,omitempty"`
	DepartTime  string `json:"departTime,omitempty"`

	// Drop points: Alpha is primary, Bravo is alternate.
	AlphaArrival   string `json:"alphaArrival"`
	AlphaDeparture string `json:"alphaDeparture"`
	BravoArrival   string `json:"bravoArrival"`
	BravoDeparture string `json:"bravoDeparture"`

	TeamLead string  `json:"teamLead"`
	Agents   []Agent `json:"agents"`

	PrimaryComms   string `json:"primaryComms,omitempty"`
	SecondaryComms string `json:"secondaryComms,omitempty"`
	CodeWords      string `json:"codeWords,omitempty"`

	// Medical
	ERName    string `json:"erName,omitempty"`
	ERAddress string `json:"erAddress,omitempty"`
	ERPhone   string `json:"erPhone,omitempty"`

	// Law enforcement
	LEName    string `json:"leName,omitempty"`
	LEAddress string `json:"leAddress,omitempty"`
	LEPhone   string `json:"lePhone,omitempty"`

	Pocs     []Poc     `json:"pocs"`
	BoloPois []BoloPoi `json:"boloPois"`

	Notes string `json:"notes,omitempty"`
}

// Clone returns a deep copy; list fields never share backing arrays.
func (a Advance) Clone() Advance {
	out := a
	out.Agents = append([]Agent(nil), a.Agents...)
	out.Pocs = append([]Poc(nil), a.Pocs...)
	out.BoloPois = append([]BoloPoi(nil), a.BoloPois...)
	return out
}
