package message

// Catalog maps a language code to the template set for that language.
// Template content is data, not logic: adding a language is a catalog edit,
// never a code change.
type Catalog map[string]map[Key]string

// DefaultCatalog carries the built-in template table. Every language must
// define every key; NewResolver enforces that at startup.
var DefaultCatalog = Catalog{
	"en": {
		KeyReminder:       "Hello {name}. This is a reminder from EMI Genie. Your EMI of Rs {amount} is due today. Press 1 to pay now, or press 2 to request a reschedule.",
		KeyPreDueReminder: "Hello {name}. A friendly reminder from EMI Genie. Your EMI of Rs {amount} is due on {due_date}. Thank you.",
		KeyLinkSent:       "We have sent a payment link to your phone. Thank you.",
		KeyRescheduled:    "Your request has been noted. An agent will call you back shortly to confirm a new date. Thank you.",
	},
	"hi": {
		KeyReminder:       "नमस्ते {name}. EMI Genie से रिमाइंडर। आपकी EMI {amount} रुपये आज देय है। भुगतान के लिए 1 दबाएँ, पुनर्निर्धारण के लिए 2 दबाएँ।",
		KeyPreDueReminder: "नमस्ते {name}. EMI Genie से एक सूचना। आपकी EMI {amount} रुपये {due_date} को देय है। धन्यवाद।",
		KeyLinkSent:       "हमने आपके नंबर पर भुगतान लिंक भेज दिया है। धन्यवाद।",
		KeyRescheduled:    "आपका अनुरोध नोट कर लिया गया है। एक एजेंट आपको एक नई तारीख की पुष्टि करने के लिए जल्द ही कॉल करेगा। धन्यवाद।",
	},
	"bn": {
		KeyReminder:       "নমস্কার {name}. EMI Genie থেকে একটি রিমাইন্ডার। আপনার EMI {amount} টাকা আজ বাকি আছে। পে করতে 1 চেপে দিন, পুনঃনির্ধারণ করতে 2 চেপে দিন।",
		KeyPreDueReminder: "নমস্কার {name}. EMI Genie থেকে একটি বন্ধুত্বপূর্ণ রিমাইন্ডার। আপনার EMI {amount} টাকা {due_date} তারিখে বাকি আছে। ধন্যবাদ।",
		KeyLinkSent:       "পেমেন্ট লিঙ্ক আপনার ফোনে পাঠানো হয়েছে। ধন্যবাদ।",
		KeyRescheduled:    "আপনার অনুরোধ নোট করা হয়েছে। একজন এজেন্ট একটি নতুন তারিখ নিশ্চিত করতে আপনাকে শীঘ্রই আবার কল করবে। ধন্যবাদ।",
	},
	"ta": {
		KeyReminder:       "வணக்கம் {name}. EMI Genie நினைவூட்டல். உங்கள் EMI {amount} ரூபாய் இன்று செலுத்த வேண்டும். செலுத்த 1 ஐ அழுத்தவும், மாற்றம் செய்ய 2 ஐ அழுத்தவும்.",
		KeyPreDueReminder: "வணக்கம் {name}. EMI Genie நினைவூட்டல். உங்கள் EMI {amount} ரூபாய் {due_date} அன்று செலுத்த வேண்டும். நன்றி.",
		KeyLinkSent:       "உங்கள் எண்ணுக்கான கட்டண இணைப்பு அனுப்பப்பட்டுள்ளது.",
		KeyRescheduled:    "உங்கள் கோரிக்கை ஏற்கப்பட்டது. ஒரு முகவர் புதிய தேதியை உறுதிப்படுத்த உங்களை மீண்டும் அழைப்பார். நன்றி.",
	},
	"te": {
		KeyReminder:       "నమస్కారం {name}. EMI Genie నుండి రిమైండర్. మీ EMI {amount} రూపాయలు ఈరోజు చెల్లించాలి. ఇప్పుడు చెల్లించడానికి 1 నొక్కండి, రీషెడ్యూల్ కోసం 2 నొక్కండి.",
		KeyPreDueReminder: "నమస్కారం {name}. EMI Genie నుండి ఒక స్నేహపూర్వక రిమైండర్. మీ EMI {amount} రూపాయలు {due_date} నాటికి చెల్లించాలి. ధన్యవాదాలు.",
		KeyLinkSent:       "మీ ఫోన్‌కు చెల్లింపు లింక్ పంపించాము. ధన్యవాదాలు.",
		KeyRescheduled:    "మీ అభ్యర్థన నమోదు చేయబడింది. కొత్త తేదీని నిర్ధారించడానికి ఒక ఏజెంట్ త్వరలో మీకు తిరిగి కాల్ చేస్తారు. ధన్యవాదాలు.",
	},
	"mr": {
		KeyReminder:       "नमस्कार {name}. EMI Genie कडून रिमाइंडर. तुमचा {amount} रुपयांचा EMI आज देय आहे. आता पेमेंट करण्यासाठी 1 दाबा किंवा रीशेड्यूल करण्याची विनंती करण्यासाठी 2 दाबा.",
		KeyPreDueReminder: "नमस्कार {name}. EMI Genie कडून एक मैत्रीपूर्ण रिमाइंडर. तुमचा {amount} रुपयांचा EMI {due_date} रोजी देय आहे. धन्यवाद.",
		KeyLinkSent:       "आम्ही तुमच्या फोनवर पेमेंट लिंक पाठवली आहे. धन्यवाद.",
		KeyRescheduled:    "तुमच्या विनंतीची नोंद घेतली आहे. एक एजंट लवकरच नवीन तारखेची पुष्टी करण्यासाठी तुम्हाला परत कॉल करेल. धन्यवाद.",
	},
	"es": {
		KeyReminder:       "Hola {name}. Este es un recordatorio de EMI Genie. Su EMI de {amount} rupias vence hoy. Presione 1 para pagar ahora, o 2 para solicitar una reprogramación.",
		KeyPreDueReminder: "Hola {name}. Un recordatorio amistoso de EMI Genie. Su EMI de {amount} rupias vence el {due_date}. Gracias.",
		KeyLinkSent:       "Hemos enviado un enlace de pago a su teléfono. Gracias.",
		KeyRescheduled:    "Su solicitud ha sido registrada. Un agente le devolverá la llamada en breve para confirmar una nueva fecha. Gracias.",
	},
	"fr": {
		KeyReminder:       "Bonjour {name}. Ceci est un rappel de EMI Genie. Votre EMI de {amount} roupies est due aujourd'hui. Appuyez sur 1 pour payer maintenant, ou sur 2 pour demander un rééchelonnement.",
		KeyPreDueReminder: "Bonjour {name}. Un rappel amical de EMI Genie. Votre EMI de {amount} roupies est due le {due_date}. Merci.",
		KeyLinkSent:       "Nous avons envoyé un lien de paiement sur votre téléphone. Merci.",
		KeyRescheduled:    "Votre demande a été enregistrée. Un agent vous rappellera sous peu pour confirmer une nouvelle date. Merci.",
	},
}
