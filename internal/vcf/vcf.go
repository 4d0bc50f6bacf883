// Package vcf renders contact and group records as vCard 4.0 text.
package vcf

import (
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/rcliao/ccextract/internal/model"
)

const (
	// Version is the vCard version written to every card.
	Version = "4.0"

	// LineBreak separates content lines.
	LineBreak = "\r\n"

	dateFormat = "20060102"
	urnPrefix  = "urn:uuid:"
)

// addressOrder is the component order of an ADDR value. The first two
// (apartment and floor) are never filled.
var addressOrder = []string{"apartment", "floor", "street", "zip", "city", "state", "country"}

var (
	textEscaper      = strings.NewReplacer(`\`, `\\`, ",", `\,`, "\r", "", "\n", `\n`)
	componentEscaper = strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\r", "", "\n", `\n`)
	lineFlattener    = strings.NewReplacer("\r", "", "\n", `\n`)
)

// Contact renders a contact card without a trailing line break.
func Contact(c *model.Contact) string {
	var w cardWriter
	w.begin()
	w.line(vcard.FieldUID, "", urnPrefix+c.UID)
	if c.HasName() {
		w.line(vcard.FieldName, "", strings.Join([]string{
			component(c.Last), component(c.First), component(c.Middle), component(c.Prefix), component(c.Suffix),
		}, ";"))
	}
	w.line(vcard.FieldFormattedName, "", flatten(c.DisplayName()))
	w.optional(vcard.FieldNickname, text(c.Nickname))
	if c.Birthday != nil {
		w.line(vcard.FieldBirthday, "", c.Birthday.Format(dateFormat))
	}
	w.optional(vcard.FieldTitle, text(c.JobTitle))
	w.optional(vcard.FieldOrganization, components(c.Organization))
	w.optional(vcard.FieldNote, text(c.Note))

	for _, t := range c.Phones {
		w.line(vcard.FieldTelephone, t.Type, flatten(t.Value))
	}
	for _, t := range c.Emails {
		w.line(vcard.FieldEmail, t.Type, flatten(t.Value))
	}
	for _, a := range c.Anniversaries {
		w.line(vcard.FieldAnniversary, a.Type, a.Date.Format(dateFormat))
	}
	for _, t := range c.URLs {
		w.line(vcard.FieldURL, t.Type, flatten(t.Value))
	}
	for _, t := range c.Related {
		w.line(vcard.FieldRelated, t.Type, text(t.Value))
	}
	for _, b := range c.Addresses {
		w.line(vcard.FieldAddress, b.Label, address(b))
	}
	for _, b := range c.IMs {
		w.line(vcard.FieldIMPP, b.Label, flatten(b.Fields["service"])+":"+flatten(b.Fields["username"]))
	}
	w.end()
	return w.String()
}

// Group renders a group card without a trailing line break.
func Group(g *model.GroupRecord) string {
	var w cardWriter
	w.begin()
	w.line(vcard.FieldKind, "", string(vcard.KindGroup))
	w.line(vcard.FieldFormattedName, "", flatten(g.FileBasis()))
	for _, uid := range g.Members {
		w.line(vcard.FieldMember, "", urnPrefix+uid)
	}
	w.end()
	return w.String()
}

func address(b model.Bucket) string {
	parts := make([]string, len(addressOrder))
	for i, key := range addressOrder {
		parts[i] = flatten(b.Fields[key])
	}
	parts[0], parts[1] = "", ""
	return strings.Join(parts, ";")
}

// text escapes a free-text value.
func text(s string) string {
	return textEscaper.Replace(s)
}

// component escapes one part of a structured value.
func component(s string) string {
	return componentEscaper.Replace(s)
}

func components(parts []string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = component(p)
	}
	return strings.Join(escaped, ";")
}

// flatten keeps a value on one content line.
func flatten(s string) string {
	return lineFlattener.Replace(s)
}

type cardWriter struct {
	lines []string
}

func (w *cardWriter) begin() {
	w.lines = append(w.lines, "BEGIN:VCARD", vcard.FieldVersion+":"+Version)
}

func (w *cardWriter) end() {
	w.lines = append(w.lines, "END:VCARD")
}

func (w *cardWriter) optional(name, value string) {
	if value != "" {
		w.line(name, "", value)
	}
}

func (w *cardWriter) line(name, typ, value string) {
	var sb strings.Builder
	sb.WriteString(name)
	if typ != "" {
		sb.WriteString(";" + vcard.ParamType + "=" + typeParam(typ))
	}
	sb.WriteString(":")
	sb.WriteString(value)
	w.lines = append(w.lines, sb.String())
}

func (w *cardWriter) String() string {
	return strings.Join(w.lines, LineBreak)
}

// typeParam quotes a TYPE value that would otherwise break the line syntax.
func typeParam(typ string) string {
	typ = strings.NewReplacer(`"`, "", "\r", "", "\n", " ").Replace(typ)
	if strings.ContainsAny(typ, ";:, ") {
		return `"` + typ + `"`
	}
	return typ
}
