package page

import "html/template"

const Loading template.HTML = "Loading..."

// Versions are the IP versions the page has panels for
var Versions = []string{"4", "6"}

// AddressIDs are the element ids of one version's panel
type AddressIDs struct {
	Address  string
	ISP      string
	Country  string
	City     string
	Info     string
	InfoFail string
}

func IDsFor(version string) AddressIDs {
	return AddressIDs{
		Address:  "addr-v" + version,
		ISP:      "addr-v" + version + "-isp",
		Country:  "addr-v" + version + "-country",
		City:     "addr-v" + version + "-city",
		Info:     "ipv" + version + "-info",
		InfoFail: "ipv" + version + "-info-fail",
	}
}

// AddressDocument builds the document as the page serves it before any
// data arrives: placeholders in the data elements, the fail panels hidden
// and both accordion sections open.
func AddressDocument() *Document {
	d := NewDocument()
	d.Accordion = NewAccordion(2)

	for _, version := range Versions {
		ids := IDsFor(version)
		for _, id := range []string{ids.Address, ids.ISP, ids.Country, ids.City} {
			d.SetHTML(id, Loading)
		}
		d.Show(ids.Info)
		d.Hide(ids.InfoFail)
	}

	return d
}
