package advance

import "strings"

// Redacted replaces sensitive values in redact mode.
const Redacted = "REDACTED"

// RedactValue hides v when on is set. Blank values become "" so an empty
// cell never reads as if it held something.
func RedactValue(v string, on bool) string {
	if !on {
		return v
	}
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return Redacted
}

// Redact returns a deep copy of a with location and phone fields hidden.
func Redact(a Advance, on bool) Advance {
	out := a.Clone()
	if !on {
		return out
	}
	for _, p := range []*string{
		&out.Address,
		&out.ERAddress, &out.ERPhone,
		&out.LEAddress, &out.LEPhone,
		&out.AlphaArrival, &out.AlphaDeparture,
		&out.BravoArrival, &out.BravoDeparture,
	} {
		*p = RedactValue(*p, true)
	}
	for i := range out.Agents {
		out.Agents[i].Phone = RedactValue(out.Agents[i].Phone, true)
	}
	for i := range out.Pocs {
		out.Pocs[i].Phone = RedactValue(out.Pocs[i].Phone, true)
	}
	for i := range out.BoloPois {
		out.BoloPois[i].LastKnown = RedactValue(out.BoloPois[i].LastKnown, true)
	}
	return out
}
