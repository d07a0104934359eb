package advance

import "time"

const (
	// AppShort names the tool in file names and headers.
	AppShort = "Raden"
	// AppName is the long product name.
	AppName = "Raden - The Pocket Advance Generator"
	// Disclaimer is printed on every exported document.
	Disclaimer = "Provided as-is. Verify all info. Do not include sensitive data. For planning support only."
)

// Today formats t as the calendar date used by Advance.Date.
func Today(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Default returns the placeholder-first record shown on a fresh start.
func Default(today string) Advance {
	return Advance{
		DetailName: "Detail / Operation Name",
		Date:       today,

		VenueName: "Venue / Location Name",
		Address:   "Address",

		TimeOn:  "18:00",
		TimeOff: "02:00",

		TeamLead: "Team Lead Name",
		Agents:   []Agent{{Name: "Agent 1", Role: "Primary", Phone: ""}},

		PrimaryComms:   "Primary Comms",
		SecondaryComms: "Secondary Comms",
		CodeWords:      "Code word(s)",

		ERName:    "Nearest ER",
		ERAddress: "ER Address",

		LEName:    "Nearest Sheriff / PD",
		LEAddress: "PD Address",

		Pocs: []Poc{{Name: "POC Name", RoleOrg: "Role / Organization"}},
		BoloPois: []BoloPoi{
			{Type: KindBOLO, Subject: "Vehicle/Person"},
		},
	}
}

// Blank returns the blank-first record: same shape and list seeds, no example text.
func Blank(today string) Advance {
	return Advance{
		Date:     today,
		TimeOn:   "18:00",
		TimeOff:  "02:00",
		Agents:   []Agent{{}},
		Pocs:     []Poc{{}},
		BoloPois: []BoloPoi{{Type: KindBOLO}},
	}
}
