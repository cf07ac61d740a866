package settings

// CompanySettings describes the agency identity shown on the site.
type CompanySettings struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Whatsapp    string `json:"whatsappNumber"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// WhatsAppSettings controls the booking-by-WhatsApp flow.
type WhatsAppSettings struct {
	Enabled         bool   `json:"enabled"`
	PhoneNumber     string `json:"phoneNumber"`
	MessageTemplate string `json:"messageTemplate"`
}

// GeneralSettings carries locale and currency defaults.
type GeneralSettings struct {
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
	Language string `json:"language"`
}

// AdminSettings is the full configurable state of the site.
type AdminSettings struct {
	Company  CompanySettings  `json:"company"`
	WhatsApp WhatsAppSettings `json:"whatsapp"`
	General  GeneralSettings  `json:"general"`
}

// Defaults returns the settings used before an administrator saves any,
// tuned for a Senegal-based agency.
func Defaults() AdminSettings {
	return AdminSettings{
		Company: CompanySettings{
			Name:     "Teranga Travel",
			Email:    "contact@terangatravel.sn",
			Phone:    "+221 76 188 84 85",
			Whatsapp: "221761885485",
			Address:  "Dakar, Senegal",
		},
		WhatsApp: WhatsAppSettings{
			Enabled:         true,
			PhoneNumber:     "221761885485",
			MessageTemplate: "Bonjour, je suis intéressé(e) par l'offre {{offer}}.",
		},
		General: GeneralSettings{
			Currency: "FCFA",
			Timezone: "Africa/Dakar",
			Language: "fr",
		},
	}
}
