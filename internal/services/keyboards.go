package services

import (
	"github.com/elevatehq/go-booking-bot/internal/availability"
	"github.com/elevatehq/go-booking-bot/internal/i18n"
)

// Callback payload prefixes and literals recognized by the router. Everything
// the keyboards emit is matched back in handleButton.
const (
	cbLangEN       = "lang_en"
	cbLangAR       = "lang_ar"
	cbSvcPrefix    = "svc_"
	cbCountryPre   = "country_"
	cbAIStart      = "ai_start"
	cbOrderReport  = "order_report"
	cbOrderConsult = "order_consult"
	cbFreeReport   = "free_report"
	cbDatePrefix   = "date_"
	cbTimePrefix   = "time_"
	cbPayStripe    = "payment_stripe"
	cbPayPaypal    = "payment_paypal"
	cbPayConfirmed = "payment_confirmed"
	cbCVPrefix     = "cv_"
	cbCurrency     = "currency"
	cbCurrFromPre  = "curr_from_"
	cbCurrToPre    = "curr_to_"
	cbBackMain     = "back_main"
	cbBackServices = "back_services"
	cbChangeLang   = "change_lang"
	cbStats        = "stats"
	cbHelp         = "help"
	cbContact      = "contact"
	cbNoop         = "noop"
)

// languageKeyboard offers the two UI languages.
func languageKeyboard() [][]Button {
	return [][]Button{
		row(btn("🇬🇧 English", cbLangEN), btn("🇸🇦 العربية", cbLangAR)),
	}
}

// servicesKeyboard is the main menu.
func servicesKeyboard(lang string) [][]Button {
	return [][]Button{
		row(btn("🎓 "+i18n.ServiceName("study", lang), cbSvcPrefix+"study")),
		row(btn("💼 "+i18n.ServiceName("work", lang), cbSvcPrefix+"work")),
		row(btn("📄 CV", cbSvcPrefix+"cv")),
		row(btn("🎫 "+i18n.ServiceName("activities", lang), cbSvcPrefix+"activities")),
		row(btn("🛫 "+i18n.ServiceName("travel", lang), cbSvcPrefix+"travel")),
		row(btn(i18n.T(lang, "btn_stats"), cbStats), btn("💱 Currency", cbCurrency)),
		row(btn(i18n.T(lang, "btn_help"), cbHelp), btn(i18n.T(lang, "btn_contact"), cbContact)),
		row(btn(i18n.T(lang, "btn_change_lang"), cbChangeLang)),
	}
}

// countryKeyboard lays the destinations out two per row, with a back row.
func countryKeyboard(lang string) [][]Button {
	var rows [][]Button
	for i := 0; i < len(i18n.Countries); i += 2 {
		r := []Button{countryButton(i18n.Countries[i], lang)}
		if i+1 < len(i18n.Countries) {
			r = append(r, countryButton(i18n.Countries[i+1], lang))
		}
		rows = append(rows, r)
	}
	return append(rows, row(btn(i18n.T(lang, "btn_back_services"), cbBackServices)))
}

func countryButton(c i18n.Country, lang string) Button {
	label := c.EN
	if i18n.Normalize(lang) == i18n.LangAR {
		label = c.AR
	}
	return btn(label, cbCountryPre+c.Code)
}

// countryOptionsKeyboard offers the three continuation paths after a country
// is picked.
func countryOptionsKeyboard(lang string) [][]Button {
	return [][]Button{
		row(btn(i18n.T(lang, "btn_ai_free"), cbAIStart)),
		row(btn(i18n.T(lang, "btn_report"), cbOrderReport)),
		row(btn(i18n.T(lang, "btn_consultation"), cbOrderConsult)),
		row(btn(i18n.T(lang, "btn_back_main"), cbBackMain)),
	}
}

// upsellKeyboard is shown when the free question allowance runs out.
func upsellKeyboard(lang string) [][]Button {
	return [][]Button{
		row(btn(i18n.T(lang, "btn_order_report"), cbOrderReport)),
		row(btn(i18n.T(lang, "btn_consultation"), cbOrderConsult)),
		row(btn(i18n.T(lang, "btn_free_report"), cbFreeReport)),
		row(btn(i18n.T(lang, "btn_back_main"), cbBackMain)),
	}
}

// dateKeyboard lays the offered dates out three per row.
func dateKeyboard(dates []string, lang string) [][]Button {
	var rows [][]Button
	for i := 0; i < len(dates); i += 3 {
		var r []Button
		for j := i; j < i+3 && j < len(dates); j++ {
			r = append(r, btn(availability.DateLabel(dates[j]), cbDatePrefix+dates[j]))
		}
		rows = append(rows, r)
	}
	return append(rows, row(btn(i18n.T(lang, "btn_back_main"), cbBackMain)))
}

// timeKeyboard renders the full grid, annotating claimed slots. Taken slots
// are inert.
func timeKeyboard(slots []availability.Slot, lang string) [][]Button {
	var r []Button
	for _, s := range slots {
		if s.Available {
			r = append(r, btn("✅ "+s.Time, cbTimePrefix+s.Time))
		} else {
			r = append(r, btn("❌ "+s.Time, cbNoop))
		}
	}
	return [][]Button{r, row(btn(i18n.T(lang, "btn_back_main"), cbBackMain))}
}

// paymentMethodKeyboard offers the two checkout providers.
func paymentMethodKeyboard(lang string) [][]Button {
	return [][]Button{
		row(btn(i18n.T(lang, "btn_pay_stripe"), cbPayStripe)),
		row(btn(i18n.T(lang, "btn_pay_paypal"), cbPayPaypal)),
		row(btn(i18n.T(lang, "btn_back_main"), cbBackMain)),
	}
}

// paymentLinkKeyboard shows the checkout URL and the confirmation button.
func paymentLinkKeyboard(orderType, method, lang string) [][]Button {
	link := i18n.PaymentLinks["report"]["stripe"]
	if byType, ok := i18n.PaymentLinks[orderType]; ok {
		if l, ok := byType[method]; ok {
			link = l
		}
	}
	return [][]Button{
		row(urlBtn(i18n.T(lang, "btn_open_payment"), link)),
		row(btn(i18n.T(lang, "btn_i_paid"), cbPayConfirmed)),
	}
}

// cvKeyboard offers the three CV order types.
func cvKeyboard(lang string) [][]Button {
	return [][]Button{
		row(btn(i18n.T(lang, "btn_cv"), cbCVPrefix+"cv")),
		row(btn(i18n.T(lang, "btn_cover"), cbCVPrefix+"cover")),
		row(btn(i18n.T(lang, "btn_bundle"), cbCVPrefix+"bundle")),
		row(btn(i18n.T(lang, "btn_back_services"), cbBackServices)),
	}
}

// currencyKeyboard lays the popular currencies out two per row with the
// given callback prefix.
func currencyKeyboard(prefix, lang string) [][]Button {
	var rows [][]Button
	for i := 0; i < len(i18n.PopularCurrencies); i += 2 {
		r := []Button{currencyButton(i18n.PopularCurrencies[i], prefix, lang)}
		if i+1 < len(i18n.PopularCurrencies) {
			r = append(r, currencyButton(i18n.PopularCurrencies[i+1], prefix, lang))
		}
		rows = append(rows, r)
	}
	return append(rows, row(btn(i18n.T(lang, "btn_back_main"), cbBackMain)))
}

func currencyButton(c i18n.Currency, prefix, lang string) Button {
	name := c.NameEN
	if i18n.Normalize(lang) == i18n.LangAR {
		name = c.NameAR
	}
	return btn(c.Flag+" "+name, prefix+c.Code)
}

// travelKeyboard links the travel-essentials partners.
func travelKeyboard(lang string) [][]Button {
	return [][]Button{
		row(urlBtn(i18n.T(lang, "btn_booking"), i18n.AffiliateLinks["booking"])),
		row(urlBtn(i18n.T(lang, "btn_getyourguide"), i18n.AffiliateLinks["getyourguide"])),
		row(urlBtn(i18n.T(lang, "btn_klook"), i18n.AffiliateLinks["klook"])),
		row(urlBtn(i18n.T(lang, "btn_insurance"), i18n.AffiliateLinks["safetywing"])),
		row(urlBtn(i18n.T(lang, "btn_esim"), i18n.AffiliateLinks["airalo"])),
		row(btn(i18n.T(lang, "btn_back_services"), cbBackServices)),
	}
}

// activitiesKeyboard links the tours partners.
func activitiesKeyboard(lang string) [][]Button {
	return [][]Button{
		row(urlBtn(i18n.T(lang, "btn_getyourguide"), i18n.AffiliateLinks["getyourguide"])),
		row(urlBtn(i18n.T(lang, "btn_klook"), i18n.AffiliateLinks["klook"])),
		row(btn(i18n.T(lang, "btn_back_services"), cbBackServices)),
	}
}
