package advance

import (
	"github.com/tidwall/gjson"
)

// Restore merges a stored blob over def. A blob that is not a JSON object
// yields def unchanged. Present fields are sanitized; a field that comes
// out empty, or is not a string, keeps the value from def.
func Restore(raw []byte, def Advance) Advance {
	out := def.Clone()
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return out
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return out
	}

	for _, f := range textFields {
		if v := CleanText(stringAt(doc, f.name), f.limit); v != "" {
			*f.get(&out) = v
		}
	}
	for _, f := range timeFields {
		if v := CleanTime(stringAt(doc, f.name)); v != "" {
			*f.get(&out) = v
		}
	}
	if v := CleanDate(stringAt(doc, "date")); v != "" {
		out.Date = v
	}

	if agents := restoreList(doc.Get("agents"), func(el gjson.Result) Agent {
		return SanitizeAgent(Agent{
			Name:  stringAt(el, "name"),
			Role:  stringAt(el, "role"),
			Phone: stringAt(el, "phone"),
		})
	}); len(agents) > 0 {
		out.Agents = agents
	}
	if pocs := restoreList(doc.Get("pocs"), func(el gjson.Result) Poc {
		return SanitizePoc(Poc{
			Name:    stringAt(el, "name"),
			RoleOrg: stringAt(el, "roleOrg"),
			Phone:   stringAt(el, "phone"),
			Notes:   stringAt(el, "notes"),
		})
	}); len(pocs) > 0 {
		out.Pocs = pocs
	}
	if bolos := restoreList(doc.Get("boloPois"), func(el gjson.Result) BoloPoi {
		return SanitizeBoloPoi(BoloPoi{
			Type:        BoloKind(stringAt(el, "type")),
			Subject:     stringAt(el, "subject"),
			Description: stringAt(el, "description"),
			LastKnown:   stringAt(el, "lastKnown"),
			Action:      stringAt(el, "action"),
		})
	}); len(bolos) > 0 {
		out.BoloPois = bolos
	}
	return out
}

// stringAt returns the string at path, or "" when it is missing or not a string.
func stringAt(r gjson.Result, path string) string {
	v := r.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// restoreList maps each object element of arr; other elements are dropped.
func restoreList[T any](arr gjson.Result, conv func(gjson.Result) T) []T {
	if !arr.IsArray() {
		return nil
	}
	var out []T
	arr.ForEach(func(_, el gjson.Result) bool {
		if el.IsObject() {
			out = append(out, conv(el))
		}
		return true
	})
	return out
}
