package micprefill

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/dto"
)

// DefaultOriginCity is used when the origin post is not a known aduana.
const DefaultOriginCity = "CIUDAD DEL ESTE"

var countryCode = regexp.MustCompile(`^\d+-`)

// RouteInput collects the form values the route is built from.
type RouteInput struct {
	OriginPost  string // campo 7
	DestLugar   string // campo 8
	DestCountry string // campo 26, e.g. "052-BRASIL"
	DestPost    string // campo 24
}

// RouteInputFrom reads the route inputs from a draft.
func RouteInputFrom(d Draft) RouteInput {
	return RouteInput{
		OriginPost:  d.Campo7PtoSeguro,
		DestLugar:   d.Campo8Destino,
		DestCountry: d.Campo26Pais,
		DestPost:    d.Campo24Aduana,
	}
}

// Gateway maps a destination country to its border crossing.
func Gateway(country string) string {
	switch {
	case strings.Contains(country, "BRASIL"):
		return "MULTILOG-FOZ DO IGUAZU"
	case strings.Contains(country, "ARGENTINA"):
		return "CLORINDA"
	case strings.Contains(country, "CHILE"):
		return "JAMA"
	default:
		return "FRONTERA"
	}
}

// CleanCountry drops a leading numeric code and upper-cases the name.
func CleanCountry(s string) string {
	return strings.ToUpper(strings.TrimSpace(countryCode.ReplaceAllString(s, "")))
}

// GenerateRoute renders the campo 40 route text. It is only run on an
// explicit operator request.
func GenerateRoute(in RouteInput, aduanas []dto.AduanaResponse) string {
	originCity := DefaultOriginCity
	for _, a := range aduanas {
		if a.Nombre == in.OriginPost {
			originCity = a.Ciudad
			break
		}
	}
	country := CleanCountry(in.DestCountry)
	return fmt.Sprintf("ORIGEN:%s-%s;SALIDA: %s-%s; DESTINO: %s-%s-%s;DESTINO ENTRADA: %s-%s-%s;",
		in.OriginPost, originCity,
		originCity, originCity,
		country, in.DestLugar, in.DestPost,
		country, in.DestLugar, Gateway(country))
}

// ApplyRoute writes the generated route into campo 40.
func (d *Draft) ApplyRoute(aduanas []dto.AduanaResponse) {
	d.Campo40Tramo = GenerateRoute(RouteInputFrom(*d), aduanas)
}
