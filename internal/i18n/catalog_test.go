package i18n

import (
	"strings"
	"testing"
)

func TestT_BothLanguagesAndFallbacks(t *testing.T) {
	en := T(LangEN, "ask_email")
	ar := T(LangAR, "ask_email")
	if en == "" || ar == "" || en == ar {
		t.Fatalf("expected distinct translations, got %q / %q", en, ar)
	}

	// unknown language normalizes to English
	if got := T("fr", "ask_email"); got != en {
		t.Fatalf("fallback language = %q, want %q", got, en)
	}
	// unknown key falls back to the key itself
	if got := T(LangEN, "no_such_key"); got != "no_such_key" {
		t.Fatalf("missing-key fallback = %q", got)
	}
}

func TestT_Formatting(t *testing.T) {
	got := T(LangEN, "ai_intro", 5, "Germany")
	if !strings.Contains(got, "5") || !strings.Contains(got, "Germany") {
		t.Fatalf("placeholders not applied: %q", got)
	}
}

func TestEveryKeyExistsInBothLanguages(t *testing.T) {
	for key := range texts[LangEN] {
		if _, ok := texts[LangAR][key]; !ok {
			t.Errorf("key %q missing from Arabic catalog", key)
		}
	}
	for key := range texts[LangAR] {
		if _, ok := texts[LangEN][key]; !ok {
			t.Errorf("key %q missing from English catalog", key)
		}
	}
}

func TestCountries(t *testing.T) {
	if len(Countries) != 28 {
		t.Fatalf("len(Countries) = %d, want 28", len(Countries))
	}
	if !IsCountry("germany") || IsCountry("atlantis") {
		t.Fatalf("IsCountry misclassifies")
	}
	if got := CountryName("poland", LangEN); got != "🇵🇱 Poland" {
		t.Fatalf("CountryName = %q", got)
	}
	if got := CountryName("poland", LangAR); got != "🇵🇱 بولندا" {
		t.Fatalf("CountryName ar = %q", got)
	}
	if got := CountryName("atlantis", LangEN); got != "atlantis" {
		t.Fatalf("unknown CountryName = %q", got)
	}
}

func TestCurrencies(t *testing.T) {
	if len(SupportedCurrencies) != 31 {
		t.Fatalf("len(SupportedCurrencies) = %d, want 31", len(SupportedCurrencies))
	}
	if !IsCurrency("EUR") || IsCurrency("XXX") {
		t.Fatalf("IsCurrency misclassifies")
	}
	for _, c := range PopularCurrencies {
		if !IsCurrency(c.Code) {
			t.Errorf("popular currency %s missing from allow-list", c.Code)
		}
	}
}

func TestPaymentLinksCoverAllOrderTypes(t *testing.T) {
	for _, orderType := range []string{"report", "consultation", "cv", "cover", "bundle"} {
		links, ok := PaymentLinks[orderType]
		if !ok {
			t.Fatalf("no payment links for %q", orderType)
		}
		for _, method := range []string{"stripe", "paypal"} {
			if links[method] == "" {
				t.Errorf("missing %s link for %q", method, orderType)
			}
		}
	}
}
