package i18n

// Lang selects a message catalog.
type Lang string

const (
	LangEN Lang = "en"
	LangFR Lang = "fr"
)

// Translate resolves key in the given language. Unknown languages fall
// back to English; unknown keys echo the key itself so a missing entry
// degrades to a visible marker instead of an error.
func Translate(lang Lang, key string) string {
	catalog, ok := catalogs[lang]
	if !ok {
		catalog = catalogs[LangEN]
	}
	if msg, ok := catalog[key]; ok {
		return msg
	}
	if lang != LangEN {
		if msg, ok := catalogs[LangEN][key]; ok {
			return msg
		}
	}
	return key
}

var catalogs = map[Lang]map[string]string{
	LangEN: {
		"site.title":    "Smart Home Savings",
		"site.subtitle": "Your Trusted Canadian Energy Efficiency Partner",

		"assessment.title":    "Energy Efficiency Assessment",
		"assessment.progress": "Progress",
		"assessment.step":     "Step",
		"assessment.of":       "of",
		"assessment.next":     "Next",
		"assessment.previous": "Previous",
		"assessment.save":     "Save & Continue Later",

		"question.postal.title":     "What's your postal code?",
		"question.postal.help":      "We use this to find rebates available in your area",
		"question.property.title":   "What type of property do you live in?",
		"question.heating.title":    "What's your primary heating system?",
		"question.age.title":        "When was your home built?",
		"question.insulation.title": "How well is your home insulated?",
		"question.insulation.help":  "Attic and wall insulation drives the biggest efficiency gains",

		"contact.title":    "Get Your Personalized Results",
		"contact.subtitle": "Enter your details to receive your rebate analysis and connect with certified professionals",
		"contact.name":     "Full Name",
		"contact.email":    "Email Address",
		"contact.phone":    "Phone Number",
		"contact.privacy":  "I consent to receive information about energy efficiency programs",
		"contact.submit":   "Get My Results",

		"results.rebates": "Available Rebates",
		"results.savings": "Annual Savings",
		"results.carbon":  "CO2 Reduction/Year",

		"recommendation.heatpump.title":   "Heat Pump Installation",
		"recommendation.heatpump.body":    "Replace your oil heating with an efficient heat pump. Up to $15,000 in rebates available.",
		"recommendation.insulation.title": "Insulation Upgrade",
		"recommendation.insulation.body":  "Improve your home's thermal envelope. Rebates up to $3,000 available.",
		"recommendation.windows.title":    "Windows & Doors",
		"recommendation.windows.body":     "Energy-efficient windows can save 10-15% on energy bills.",
	},
	LangFR: {
		"site.title":    "Smart Home Savings",
		"site.subtitle": "Votre Partenaire Canadien de Confiance en Efficacité Énergétique",

		"assessment.title":    "Évaluation de l'Efficacité Énergétique",
		"assessment.progress": "Progrès",
		"assessment.step":     "Étape",
		"assessment.of":       "de",
		"assessment.next":     "Suivant",
		"assessment.previous": "Précédent",
		"assessment.save":     "Sauvegarder et Continuer Plus Tard",

		"question.postal.title":     "Quel est votre code postal?",
		"question.postal.help":      "Nous utilisons ceci pour trouver les rabais disponibles dans votre région",
		"question.property.title":   "Dans quel type de propriété habitez-vous?",
		"question.heating.title":    "Quel est votre système de chauffage principal?",
		"question.age.title":        "Quand votre maison a-t-elle été construite?",
		"question.insulation.title": "Votre maison est-elle bien isolée?",
		"question.insulation.help":  "L'isolation du grenier et des murs offre les plus grands gains d'efficacité",

		"contact.title":    "Obtenez Vos Résultats Personnalisés",
		"contact.subtitle": "Entrez vos détails pour recevoir votre analyse de rabais et vous connecter avec des professionnels certifiés",
		"contact.name":     "Nom Complet",
		"contact.email":    "Adresse Courriel",
		"contact.phone":    "Numéro de Téléphone",
		"contact.privacy":  "Je consens à recevoir des informations sur les programmes d'efficacité énergétique",
		"contact.submit":   "Obtenir Mes Résultats",

		"results.rebates": "Rabais Disponibles",
		"results.savings": "Économies Annuelles",
		"results.carbon":  "Réduction de CO2/An",

		"recommendation.heatpump.title":   "Installation d'une Thermopompe",
		"recommendation.heatpump.body":    "Remplacez votre chauffage au mazout par une thermopompe efficace. Jusqu'à 15 000 $ de rabais disponibles.",
		"recommendation.insulation.title": "Amélioration de l'Isolation",
		"recommendation.insulation.body":  "Améliorez l'enveloppe thermique de votre maison. Rabais jusqu'à 3 000 $ disponibles.",
		"recommendation.windows.title":    "Fenêtres et Portes",
		"recommendation.windows.body":     "Les fenêtres écoénergétiques peuvent économiser 10 à 15 % sur les factures.",
	},
}
