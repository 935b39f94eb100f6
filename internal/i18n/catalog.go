// Package i18n holds the bilingual text catalog and the static reference
// data the dialog surfaces: destination countries, service types, the
// currency allow-list, and outbound payment and affiliate links.
//
// Lookup is deliberately forgiving. A missing key falls back to English and
// then to the key itself; the dialog must never fail to render because a
// translation is absent.
package i18n

import "golang.org/x/text/language"

// Supported UI languages.
const (
	LangEN = "en"
	LangAR = "ar"
)

// Tags maps the UI language codes to their BCP 47 tags.
var Tags = map[string]language.Tag{
	LangEN: language.English,
	LangAR: language.Arabic,
}

// Normalize coerces an arbitrary language code to a supported one.
func Normalize(lang string) string {
	if lang == LangAR {
		return LangAR
	}
	return LangEN
}

// Country is one bookable destination.
type Country struct {
	Code string
	EN   string
	AR   string
}

// Countries is the ordered destination list rendered on the country keyboard.
var Countries = []Country{
	{Code: "germany", EN: "🇩🇪 Germany", AR: "🇩🇪 ألمانيا"},
	{Code: "france", EN: "🇫🇷 France", AR: "🇫🇷 فرنسا"},
	{Code: "italy", EN: "🇮🇹 Italy", AR: "🇮🇹 إيطاليا"},
	{Code: "spain", EN: "🇪🇸 Spain", AR: "🇪🇸 إسبانيا"},
	{Code: "netherlands", EN: "🇳🇱 Netherlands", AR: "🇳🇱 هولندا"},
	{Code: "sweden", EN: "🇸🇪 Sweden", AR: "🇸🇪 السويد"},
	{Code: "switzerland", EN: "🇨🇭 Switzerland", AR: "🇨🇭 سويسرا"},
	{Code: "austria", EN: "🇦🇹 Austria", AR: "🇦🇹 النمسا"},
	{Code: "belgium", EN: "🇧🇪 Belgium", AR: "🇧🇪 بلجيكا"},
	{Code: "finland", EN: "🇫🇮 Finland", AR: "🇫🇮 فنلندا"},
	{Code: "norway", EN: "🇳🇴 Norway", AR: "🇳🇴 النرويج"},
	{Code: "denmark", EN: "🇩🇰 Denmark", AR: "🇩🇰 الدنمارك"},
	{Code: "portugal", EN: "🇵🇹 Portugal", AR: "🇵🇹 البرتغال"},
	{Code: "greece", EN: "🇬🇷 Greece", AR: "🇬🇷 اليونان"},
	{Code: "czech", EN: "🇨🇿 Czech Republic", AR: "🇨🇿 التشيك"},
	{Code: "slovakia", EN: "🇸🇰 Slovakia", AR: "🇸🇰 سلوفاكيا"},
	{Code: "ukraine", EN: "🇺🇦 Ukraine", AR: "🇺🇦 أوكرانيا"},
	{Code: "poland", EN: "🇵🇱 Poland", AR: "🇵🇱 بولندا"},
	{Code: "romania", EN: "🇷🇴 Romania", AR: "🇷🇴 رومانيا"},
	{Code: "hungary", EN: "🇭🇺 Hungary", AR: "🇭🇺 هنغاريا"},
	{Code: "uk", EN: "🇬🇧 United Kingdom", AR: "🇬🇧 بريطانيا"},
	{Code: "ireland", EN: "🇮🇪 Ireland", AR: "🇮🇪 أيرلندا"},
	{Code: "usa", EN: "🇺🇸 United States", AR: "🇺🇸 أمريكا"},
	{Code: "canada", EN: "🇨🇦 Canada", AR: "🇨🇦 كندا"},
	{Code: "australia", EN: "🇦🇺 Australia", AR: "🇦🇺 أستراليا"},
	{Code: "newzealand", EN: "🇳🇿 New Zealand", AR: "🇳🇿 نيوزيلندا"},
	{Code: "philippines", EN: "🇵🇭 Philippines", AR: "🇵🇭 الفلبين"},
	{Code: "china", EN: "🇨🇳 China", AR: "🇨🇳 الصين"},
}

// CountryName resolves a country code to its display name, falling back to
// the code itself for unknown values.
func CountryName(code, lang string) string {
	for _, c := range Countries {
		if c.Code == code {
			if Normalize(lang) == LangAR {
				return c.AR
			}
			return c.EN
		}
	}
	return code
}

// IsCountry reports whether code is a known destination.
func IsCountry(code string) bool {
	for _, c := range Countries {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Service is one advertised service category.
type Service struct {
	Code string
	EN   string
	AR   string
}

// Services is the ordered service list on the main menu.
var Services = []Service{
	{Code: "study", EN: "Study Abroad", AR: "الدراسة في الخارج"},
	{Code: "work", EN: "Work Visa", AR: "تأشيرة العمل"},
	{Code: "activities", EN: "Activities & Tours", AR: "الأنشطة والجولات"},
	{Code: "travel", EN: "Travel Services", AR: "خدمات السفر"},
}

// ServiceName resolves a service code to its display name.
func ServiceName(code, lang string) string {
	for _, s := range Services {
		if s.Code == code {
			if Normalize(lang) == LangAR {
				return s.AR
			}
			return s.EN
		}
	}
	return code
}

// IsService reports whether code is a known service category.
func IsService(code string) bool {
	for _, s := range Services {
		if s.Code == code {
			return true
		}
	}
	return false
}

// SupportedCurrencies is the converter allow-list (ECB reference rates).
var SupportedCurrencies = map[string]string{
	"USD": "US Dollar", "EUR": "Euro", "GBP": "British Pound", "JPY": "Japanese Yen",
	"AUD": "Australian Dollar", "CAD": "Canadian Dollar", "CHF": "Swiss Franc", "CNY": "Chinese Yuan",
	"SEK": "Swedish Krona", "NZD": "New Zealand Dollar", "KRW": "South Korean Won", "SGD": "Singapore Dollar",
	"NOK": "Norwegian Krone", "MXN": "Mexican Peso", "INR": "Indian Rupee", "BRL": "Brazilian Real",
	"ZAR": "South African Rand", "TRY": "Turkish Lira", "HKD": "Hong Kong Dollar", "IDR": "Indonesian Rupiah",
	"MYR": "Malaysian Ringgit", "PHP": "Philippine Peso", "THB": "Thai Baht", "PLN": "Polish Zloty",
	"CZK": "Czech Koruna", "HUF": "Hungarian Forint", "RON": "Romanian Leu", "BGN": "Bulgarian Lev",
	"DKK": "Danish Krone", "ISK": "Icelandic Krona", "ILS": "Israeli Shekel",
}

// IsCurrency reports whether code is on the converter allow-list.
func IsCurrency(code string) bool {
	_, ok := SupportedCurrencies[code]
	return ok
}

// Currency is a quick-pick converter entry.
type Currency struct {
	Code   string
	NameEN string
	NameAR string
	Flag   string
}

// PopularCurrencies is the quick-selection subset shown on the currency
// keyboards before the full list.
var PopularCurrencies = []Currency{
	{Code: "EUR", NameEN: "Euro", NameAR: "يورو", Flag: "🇪🇺"},
	{Code: "USD", NameEN: "US Dollar", NameAR: "دولار أمريكي", Flag: "🇺🇸"},
	{Code: "GBP", NameEN: "British Pound", NameAR: "جنيه استرليني", Flag: "🇬🇧"},
	{Code: "TRY", NameEN: "Turkish Lira", NameAR: "ليرة تركية", Flag: "🇹🇷"},
	{Code: "CHF", NameEN: "Swiss Franc", NameAR: "فرنك سويسري", Flag: "🇨🇭"},
	{Code: "CAD", NameEN: "Canadian Dollar", NameAR: "دولار كندي", Flag: "🇨🇦"},
	{Code: "AUD", NameEN: "Australian Dollar", NameAR: "دولار أسترالي", Flag: "🇦🇺"},
	{Code: "SEK", NameEN: "Swedish Krona", NameAR: "كرونة سويدية", Flag: "🇸🇪"},
	{Code: "NOK", NameEN: "Norwegian Krone", NameAR: "كرونة نرويجية", Flag: "🇳🇴"},
	{Code: "DKK", NameEN: "Danish Krone", NameAR: "كرونة دنماركية", Flag: "🇩🇰"},
	{Code: "PLN", NameEN: "Polish Zloty", NameAR: "زلوتي بولندي", Flag: "🇵🇱"},
	{Code: "CZK", NameEN: "Czech Koruna", NameAR: "كرونة تشيكية", Flag: "🇨🇿"},
	{Code: "HUF", NameEN: "Hungarian Forint", NameAR: "فورنت مجري", Flag: "🇭🇺"},
	{Code: "RON", NameEN: "Romanian Leu", NameAR: "ليو روماني", Flag: "🇷🇴"},
	{Code: "BGN", NameEN: "Bulgarian Lev", NameAR: "ليف بلغاري", Flag: "🇧🇬"},
}

// PaymentLinks maps order type then payment method to the checkout URL.
var PaymentLinks = map[string]map[string]string{
	"report": {
		"stripe": "https://buy.stripe.com/4gM7sKchi19xeK22Wf6Zy02",
		"paypal": "https://www.paypal.com/ncp/payment/KCDX8SVCNE6AY",
	},
	"consultation": {
		"stripe": "https://buy.stripe.com/7sY14m6WY05tdFYfJ16Zy03",
		"paypal": "https://www.paypal.com/ncp/payment/RVV3XKBS4HTW2",
	},
	"cv": {
		"stripe": "https://buy.stripe.com/00w8wO3KMaK71XgaoH6Zy06",
		"paypal": "https://www.paypal.com/ncp/payment/BZWFQ2HKVTGYY",
	},
	"cover": {
		"stripe": "https://buy.stripe.com/6oU3cu0yA5pN8lE2Wf6Zy07",
		"paypal": "https://www.paypal.com/ncp/payment/SKT338NRSXKTW",
	},
	"bundle": {
		"stripe": "https://buy.stripe.com/14A5kC0yA9G3atM54n6Zy08",
		"paypal": "https://www.paypal.com/ncp/payment/YDZWFF7YFBW4E",
	},
}

// CVPrices maps a CV order type to its advertised price.
var CVPrices = map[string]string{
	"cv":     "€10",
	"cover":  "€10",
	"bundle": "€15",
}

// AffiliateLinks is the travel-essentials partner link set. Same URLs for
// both languages; only the button labels differ.
var AffiliateLinks = map[string]string{
	"getyourguide":     "https://getyourguide.tpo.mx/SPqoxjWD",
	"klook":            "https://klook.tpo.mx/1IPQswu1",
	"booking":          "https://www.booking.com",
	"visitorscoverage": "https://www.visitorscoverage.com",
	"airalo":           "https://airalo.tpo.mx/jvfDjJ15",
	"safetywing":       "https://safetywing.com/?referenceID=26428827&utm_source=26428827&utm_medium=Ambassador",
}
