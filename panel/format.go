package panel

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/cloud66-oss/myip/utils"
)

// Unknown is shown for every field the endpoint did not provide
const Unknown template.HTML = "Unknown"

// Fields are the four display values of a panel, ready to be written into
// the document
type Fields struct {
	Address template.HTML
	ISP     template.HTML
	Country template.HTML
	City    template.HTML
}

// FormatFlag returns the markup of the flag image of a country
func FormatFlag(countryCode string, country string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<img class="flag" src="/static/flags/%s.gif" alt="%s Flag" />`,
		html.EscapeString(strings.ToLower(countryCode)),
		html.EscapeString(country),
	))
}

// Format builds the display values of a response. Endpoint values are
// escaped, only the flag markup is trusted.
func Format(data *utils.GeoResponse) Fields {
	fields := Fields{
		Address: Unknown,
		ISP:     Unknown,
		Country: Unknown,
		City:    Unknown,
	}

	if ip, ok := data.Address(); ok {
		fields.Address = text(ip)
	}

	if isp, ok := data.ISP(); ok {
		fields.ISP = text(isp)
	}

	if name, code, ok := data.Country(); ok {
		fields.Country = FormatFlag(code, name) + " " + text(name)
	}

	if city, ok := data.CityName(); ok {
		fields.City = text(city)
	}

	return fields
}

func text(s string) template.HTML {
	return template.HTML(html.EscapeString(s))
}
