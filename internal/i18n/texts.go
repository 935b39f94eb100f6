package i18n

import "fmt"

// texts is the bilingual message catalog, keyed by language then message key.
// Placeholders are fmt verbs filled by T.
var texts = map[string]map[string]string{
	LangEN: {
		"welcome":            "🎉 Welcome %s!\n\nElevate Platform 🤖\n\nChoose your language:",
		"services_title":     "Elevate Platform 🤖\n\n🌍 Available services:",
		"choose_country":     "🌍 Choose your destination country:",
		"country_options":    "You picked %s for %s.\n\nHow would you like to continue?",
		"btn_ai_free":        "🤖 Ask the AI assistant (free)",
		"btn_report":         "📊 Detailed report (€5)",
		"btn_consultation":   "📅 Book a consultation (€20)",
		"btn_back_main":      "🔙 Main menu",
		"btn_back_services":  "🔙 Back to services",
		"btn_change_lang":    "🌐 Change language",
		"btn_contact":        "📞 Contact us",
		"btn_help":           "❓ Help",
		"btn_stats":          "📊 Reports & statistics",
		"btn_i_paid":         "✅ I Paid",
		"btn_order_report":   "📊 Order detailed report",
		"btn_free_report":    "📧 Email me this conversation (free)",
		"ai_intro":           "🤖 You can ask up to %d free questions about %s. Go ahead!",
		"ai_limit":           "You have used all %d free questions.\n\nFor deeper guidance, order a detailed report or book a consultation:",
		"ai_unavailable":     "Sorry, I'm having trouble answering right now. Please try again in a moment.",
		"ask_name":           "📝 Please enter your full name:",
		"ask_email":          "📧 Please enter your email address:",
		"invalid_email":      "⚠️ That doesn't look like a valid email. Please try again:",
		"choose_date":        "📅 Choose a consultation date:",
		"choose_time":        "🕐 Choose a time on %s:",
		"slot_taken":         "⚠️ That time was just booked by someone else. Please pick another slot:",
		"date_unavailable":   "⚠️ That date is no longer offered. Please pick again:",
		"choose_payment":     "💳 Choose a payment method:",
		"payment_report":     "📊 Detailed report — €5\n\nPay via the link below, then press \"I Paid\". We will send your detailed report within 24 hours.",
		"payment_consult":    "📅 Consultation — €20 on %s at %s\n\nPay via the link below, then press \"I Paid\" to confirm your booking.",
		"btn_pay_stripe":     "💳 Stripe",
		"btn_pay_paypal":     "💰 PayPal",
		"btn_open_payment":   "🔗 Open payment link",
		"paid_report_ok":     "✅ Thank you! Your order #%s is confirmed. Your detailed report will arrive at %s within 24 hours.",
		"paid_consult_ok":    "✅ Your consultation is confirmed!\n\n📅 %s at %s\n🔢 Booking #%s\n\nWe will contact you at %s.",
		"paid_retry":         "⚠️ We could not confirm your payment just now. Please try \"I Paid\" again in a moment.",
		"session_expired":    "⏱️ Your session expired. Let's start over:",
		"free_report_email":  "📧 Where should we send your conversation summary?",
		"free_report_sent":   "✅ Done! Your conversation summary is on its way to %s.",
		"free_report_fail":   "⚠️ We could not send the summary right now. Please try again later.",
		"currency_amount":    "💱 Enter the amount to convert:",
		"currency_bad_amt":   "⚠️ Please enter a positive number:",
		"currency_from":      "💱 Convert from:",
		"currency_to":        "💱 Convert to:",
		"currency_result":    "💱 %.2f %s = %.2f %s\n\nRate: 1 %s = %.4f %s",
		"currency_unknown":   "⚠️ The currency %s is not available. %d currencies are supported.",
		"currency_fail":      "⚠️ Could not fetch the exchange rate right now. Please try again later.",
		"cv_intro":           "📄 CV & Cover Letter service\n\n• CV — €10\n• Cover letter — €10\n• Bundle — €15\n\nChoose an option:",
		"btn_cv":             "📄 CV (€10)",
		"btn_cover":          "✉️ Cover letter (€10)",
		"btn_bundle":         "📦 CV + cover letter (€15)",
		"cv_collect":         "📝 Send your details in one message: name, email, target role, and a short summary of your experience.",
		"cv_received":        "✅ Your information was received!\n\n📋 Service: %s\n💰 Price: %s\n🔢 Order: #%s\n\nChoose a payment method below. Delivery within 48 hours after payment.",
		"help":               "❓ Help\n\n/start — restart the bot\n/services — service menu\n/language — change language\n/currency — currency converter\n/contact — contact us",
		"contact_info":       "📞 Contact\n\n📧 Email: info@studyua.org\n📞 Phone: +32 465 69 06 37",
		"stats":              "📊 Platform statistics\n\n👥 AI sessions: %d\n📅 Bookings: %d\n📊 Reports ordered: %d\n📄 CV orders: %d",
		"travel_menu":        "🛫 Travel Services\n\nBook hotels, tours, insurance and more through our partners:",
		"activities_menu":    "🎫 Activities & Tours\n\nExplore the best activities and tours at your destination:",
		"btn_getyourguide":   "🎟️ GetYourGuide",
		"btn_klook":          "🎫 Klook",
		"btn_booking":        "🏨 Booking.com",
		"btn_insurance":      "🛡️ Travel insurance",
		"btn_esim":           "📱 Airalo eSIM",
		"unknown":            "🤔 I didn't understand that. Use the menu below:",
	},
	LangAR: {
		"welcome":            "🎉 أهلاً بك %s!\n\nمنصة Elevate 🤖\n\nاختر اللغة:",
		"services_title":     "منصة Elevate 🤖\n\n🌍 الخدمات المتاحة:",
		"choose_country":     "🌍 اختر دولة الوجهة:",
		"country_options":    "اخترت %s لخدمة %s.\n\nكيف تريد المتابعة؟",
		"btn_ai_free":        "🤖 اسأل الذكاء الاصطناعي (مجاني)",
		"btn_report":         "📊 تقرير مفصل (€5)",
		"btn_consultation":   "📅 حجز استشارة (€20)",
		"btn_back_main":      "🔙 القائمة الرئيسية",
		"btn_back_services":  "🔙 العودة للخدمات",
		"btn_change_lang":    "🌐 تغيير اللغة",
		"btn_contact":        "📞 اتصل بنا",
		"btn_help":           "❓ المساعدة",
		"btn_stats":          "📊 التقارير والإحصائيات",
		"btn_i_paid":         "✅ دفعت",
		"btn_order_report":   "📊 اطلب التقرير المفصل",
		"btn_free_report":    "📧 أرسل لي هذه المحادثة (مجاناً)",
		"ai_intro":           "🤖 يمكنك طرح %d أسئلة مجانية عن %s. تفضل!",
		"ai_limit":           "لقد استخدمت جميع الأسئلة المجانية (%d).\n\nللمزيد من التوجيه، اطلب تقريراً مفصلاً أو احجز استشارة:",
		"ai_unavailable":     "عذراً، لا أستطيع الإجابة الآن. حاول مرة أخرى بعد قليل.",
		"ask_name":           "📝 الرجاء إدخال اسمك الكامل:",
		"ask_email":          "📧 الرجاء إدخال بريدك الإلكتروني:",
		"invalid_email":      "⚠️ البريد الإلكتروني غير صالح. حاول مرة أخرى:",
		"choose_date":        "📅 اختر تاريخ الاستشارة:",
		"choose_time":        "🕐 اختر وقتاً في %s:",
		"slot_taken":         "⚠️ تم حجز هذا الموعد للتو. الرجاء اختيار موعد آخر:",
		"date_unavailable":   "⚠️ هذا التاريخ لم يعد متاحاً. الرجاء الاختيار مجدداً:",
		"choose_payment":     "💳 اختر طريقة الدفع:",
		"payment_report":     "📊 تقرير مفصل — €5\n\nادفع عبر الرابط أدناه ثم اضغط \"دفعت\". سنرسل تقريرك المفصل خلال 24 ساعة.",
		"payment_consult":    "📅 استشارة — €20 يوم %s الساعة %s\n\nادفع عبر الرابط أدناه ثم اضغط \"دفعت\" لتأكيد حجزك.",
		"btn_pay_stripe":     "💳 سترايب",
		"btn_pay_paypal":     "💰 باي بال",
		"btn_open_payment":   "🔗 افتح رابط الدفع",
		"paid_report_ok":     "✅ شكراً! تم تأكيد طلبك #%s. سيصل تقريرك المفصل إلى %s خلال 24 ساعة.",
		"paid_consult_ok":    "✅ تم تأكيد استشارتك!\n\n📅 %s الساعة %s\n🔢 حجز #%s\n\nسنتواصل معك على %s.",
		"paid_retry":         "⚠️ تعذر تأكيد الدفع الآن. الرجاء الضغط على \"دفعت\" مرة أخرى بعد قليل.",
		"session_expired":    "⏱️ انتهت صلاحية الجلسة. لنبدأ من جديد:",
		"free_report_email":  "📧 إلى أين نرسل ملخص محادثتك؟",
		"free_report_sent":   "✅ تم! ملخص محادثتك في طريقه إلى %s.",
		"free_report_fail":   "⚠️ تعذر إرسال الملخص الآن. حاول لاحقاً.",
		"currency_amount":    "💱 أدخل المبلغ المراد تحويله:",
		"currency_bad_amt":   "⚠️ الرجاء إدخال رقم موجب:",
		"currency_from":      "💱 التحويل من:",
		"currency_to":        "💱 التحويل إلى:",
		"currency_result":    "💱 %.2f %s = %.2f %s\n\nالسعر: 1 %s = %.4f %s",
		"currency_unknown":   "⚠️ العملة %s غير متوفرة. عدد العملات المدعومة %d.",
		"currency_fail":      "⚠️ تعذر جلب سعر الصرف الآن. حاول لاحقاً.",
		"cv_intro":           "📄 خدمة السيرة الذاتية ورسالة التغطية\n\n• سيرة ذاتية — €10\n• رسالة تغطية — €10\n• الحزمة — €15\n\nاختر خياراً:",
		"btn_cv":             "📄 سيرة ذاتية (€10)",
		"btn_cover":          "✉️ رسالة تغطية (€10)",
		"btn_bundle":         "📦 سيرة + رسالة (€15)",
		"cv_collect":         "📝 أرسل بياناتك في رسالة واحدة: الاسم، البريد، الوظيفة المستهدفة، وملخص قصير لخبرتك.",
		"cv_received":        "✅ تم استلام معلوماتك!\n\n📋 الخدمة: %s\n💰 السعر: %s\n🔢 الطلب: #%s\n\nاختر طريقة الدفع أدناه. التسليم خلال 48 ساعة بعد الدفع.",
		"help":               "❓ المساعدة\n\n/start — إعادة تشغيل البوت\n/services — قائمة الخدمات\n/language — تغيير اللغة\n/currency — محول العملات\n/contact — اتصل بنا",
		"contact_info":       "📞 معلومات الاتصال\n\n📧 البريد: info@studyua.org\n📞 الهاتف: ‎+32 465 69 06 37",
		"stats":              "📊 إحصائيات المنصة\n\n👥 جلسات الذكاء الاصطناعي: %d\n📅 الحجوزات: %d\n📊 التقارير المطلوبة: %d\n📄 طلبات السيرة الذاتية: %d",
		"travel_menu":        "🛫 خدمات السفر\n\nاحجز فنادق وجولات وتأميناً والمزيد عبر شركائنا:",
		"activities_menu":    "🎫 الأنشطة والجولات\n\nاستكشف أفضل الأنشطة والجولات في وجهتك:",
		"btn_getyourguide":   "🎟️ GetYourGuide",
		"btn_klook":          "🎫 Klook",
		"btn_booking":        "🏨 Booking.com",
		"btn_insurance":      "🛡️ تأمين السفر",
		"btn_esim":           "📱 شريحة Airalo eSIM",
		"unknown":            "🤔 لم أفهم ذلك. استخدم القائمة أدناه:",
	},
}

// T renders the message for key in lang, applying fmt arguments. Unknown
// keys fall back to the English catalog and then to the key itself.
func T(lang, key string, args ...interface{}) string {
	msg, ok := texts[Normalize(lang)][key]
	if !ok {
		msg, ok = texts[LangEN][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
