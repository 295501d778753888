package wizard

import (
	"rebatescout/internal/model"
	"rebatescout/internal/validate"
)

// Catalog returns the ordered assessment questions. The list is fixed at
// startup; option labels are bilingual and option values feed the
// estimator's rule table.
func Catalog() []model.Question {
	return []model.Question{
		{
			ID:          model.FieldPostalCode,
			Kind:        model.KindFreeText,
			TitleKey:    "question.postal.title",
			HelpKey:     "question.postal.help",
			Placeholder: "K1A 0A6",
			Rule:        validate.RulePostalCode,
		},
		{
			ID:       model.FieldPropertyType,
			Kind:     model.KindSingleSelect,
			TitleKey: "question.property.title",
			Rule:     validate.RuleNonEmpty,
			Options: []model.Option{
				{Value: "detached", Label: "Detached House / Maison Détachée"},
				{Value: "semi", Label: "Semi-detached / Jumelée"},
				{Value: "townhouse", Label: "Townhouse / Maison en Rangée"},
				{Value: "condo", Label: "Condominium / Copropriété"},
				{Value: "apartment", Label: "Apartment / Appartement"},
			},
		},
		{
			ID:       model.FieldHeatingSystem,
			Kind:     model.KindSingleSelect,
			TitleKey: "question.heating.title",
			Rule:     validate.RuleNonEmpty,
			Options: []model.Option{
				{Value: "gas", Label: "Natural Gas / Gaz Naturel"},
				{Value: "electric", Label: "Electric / Électrique"},
				{Value: "oil", Label: "Oil / Mazout"},
				{Value: "propane", Label: "Propane"},
				{Value: "wood", Label: "Wood / Bois"},
				{Value: "heatpump", Label: "Heat Pump / Thermopompe"},
			},
		},
		{
			ID:       model.FieldHomeAge,
			Kind:     model.KindSingleSelect,
			TitleKey: "question.age.title",
			Rule:     validate.RuleNonEmpty,
			Options: []model.Option{
				{Value: "new", Label: "2010 or newer / 2010 ou plus récent"},
				{Value: "modern", Label: "1990-2009"},
				{Value: "established", Label: "1970-1989"},
				{Value: "mature", Label: "1950-1969"},
				{Value: "heritage", Label: "Before 1950 / Avant 1950"},
			},
		},
		{
			ID:       model.FieldInsulationLevel,
			Kind:     model.KindSingleSelect,
			TitleKey: "question.insulation.title",
			HelpKey:  "question.insulation.help",
			Rule:     validate.RuleNonEmpty,
			Options: []model.Option{
				{Value: "good", Label: "Well insulated / Bien isolée"},
				{Value: "fair", Label: "Somewhat insulated / Moyennement isolée"},
				{Value: "poor", Label: "Poorly insulated / Mal isolée"},
				{Value: "unsure", Label: "Not sure / Incertain"},
			},
		},
	}
}
