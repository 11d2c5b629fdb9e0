package geocode

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"unicode"

	"endurance-api/internal/pkg/brdoc"

	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ufCodes = []string{
	"AC", "AL", "AP", "AM", "BA", "CE", "DF", "ES", "GO", "MA", "MT", "MS", "MG",
	"PA", "PB", "PR", "PE", "PI", "RJ", "RN", "RS", "RO", "RR", "SC", "SP", "SE", "TO",
}

type latLng struct {
	lat float64
	lng float64
}

var cityCoords = map[string]latLng{
	"sao paulo":      {-23.5505, -46.6333},
	"rio de janeiro": {-22.9068, -43.1729},
	"belo horizonte": {-19.9167, -43.9345},
	"brasilia":       {-15.7939, -47.8828},
	"salvador":       {-12.9777, -38.5016},
	"fortaleza":      {-3.7319, -38.5267},
	"curitiba":       {-25.4284, -49.2733},
	"recife":         {-8.0476, -34.8770},
	"porto alegre":   {-30.0346, -51.2177},
	"manaus":         {-3.1190, -60.0217},
	"belem":          {-1.4558, -48.4902},
	"goiania":        {-16.6869, -49.2648},
	"campinas":       {-22.9099, -47.0626},
	"florianopolis":  {-27.5954, -48.5480},
	"vitoria":        {-20.3155, -40.3128},
	"natal":          {-5.7945, -35.2110},
}

var stateCoords = map[string]latLng{
	"AC": {-9.0238, -70.8120}, "AL": {-9.5713, -36.7820}, "AP": {0.9020, -52.0030},
	"AM": {-3.4168, -65.8561}, "BA": {-12.5797, -41.7007}, "CE": {-5.4984, -39.3206},
	"DF": {-15.7998, -47.8645}, "ES": {-19.1834, -40.3089}, "GO": {-15.8270, -49.8362},
	"MA": {-4.9609, -45.2744}, "MT": {-12.6819, -56.9211}, "MS": {-20.7722, -54.7852},
	"MG": {-18.5122, -44.5550}, "PA": {-3.9784, -52.9638}, "PB": {-7.2400, -36.7820},
	"PR": {-24.8932, -51.4386}, "PE": {-8.8137, -36.9541}, "PI": {-7.7183, -42.7289},
	"RJ": {-22.9099, -43.2095}, "RN": {-5.4026, -36.9541}, "RS": {-30.0346, -53.2177},
	"RO": {-11.5057, -63.5806}, "RR": {2.7376, -62.0751}, "SC": {-27.2423, -50.2189},
	"SP": {-23.5505, -46.6333}, "SE": {-10.5741, -37.3857}, "TO": {-10.1753, -48.2982},
}

// brazilCentroid is the last resort when neither city nor state resolves.
var brazilCentroid = latLng{-14.2350, -51.9253}

// validateOffline approximates address validation without a geocoding provider:
// structural checks plus synthesized coordinates. Results are flagged
// Approximate so callers can tell the user this is best-effort, not a real
// verification.
func (r *Resolver) validateOffline(addr *Address) *AddressValidation {
	state := strings.ToUpper(strings.TrimSpace(addr.State))
	if !lo.Contains(ufCodes, state) {
		return &AddressValidation{Message: "estado inválido"}
	}
	if !brdoc.ValidCEP(addr.PostalCode) {
		return &AddressValidation{Message: "CEP inválido"}
	}
	if len(strings.TrimSpace(addr.City)) < 2 {
		return &AddressValidation{Message: "cidade inválida"}
	}
	if len(strings.TrimSpace(addr.Street)) < 3 {
		return &AddressValidation{Message: "logradouro inválido"}
	}
	if strings.TrimSpace(addr.Number) == "" {
		return &AddressValidation{Message: "número é obrigatório"}
	}

	city := normalizeCity(addr.City)
	rng := rand.New(rand.NewSource(addrSeed(city, state, addr.PostalCode)))

	var coords latLng
	switch {
	case lo.HasKey(cityCoords, city):
		coords = jitter(cityCoords[city], rng, 0.02)
	case lo.HasKey(stateCoords, state):
		coords = jitter(stateCoords[state], rng, 0.5)
	default:
		coords = jitter(brazilCentroid, rng, 1.0)
	}

	formatted := strings.TrimSpace(addr.Street) + ", " + strings.TrimSpace(addr.Number) +
		" - " + strings.TrimSpace(addr.City) + "/" + state

	return &AddressValidation{
		Valid:            true,
		Latitude:         &coords.lat,
		Longitude:        &coords.lng,
		FormattedAddress: formatted,
		Approximate:      true,
		Message:          "validação aproximada, sem provedor de geocodificação configurado",
	}
}

// normalizeCity lowercases and strips diacritics so "São Paulo" hits the table.
func normalizeCity(city string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(city)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(city))
	}
	return out
}

// addrSeed makes the synthesized coordinates stable for the same address.
func addrSeed(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
	}
	return int64(h.Sum64())
}

func jitter(base latLng, rng *rand.Rand, amount float64) latLng {
	return latLng{
		lat: base.lat + (rng.Float64()-0.5)*amount,
		lng: base.lng + (rng.Float64()-0.5)*amount,
	}
}
