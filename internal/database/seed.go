package database

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/rules"
)

// ingredientSeed maps normalized ingredient names to category tags.
var ingredientSeed = map[string][]string{
	"retinol":                   {"retinol"},
	"retinal":                   {"retinol"},
	"retinyl palmitate":         {"retinol"},
	"ascorbic acid":             {"vitamin_c"},
	"sodium ascorbyl phosphate": {"vitamin_c"},
	"ascorbyl glucoside":        {"vitamin_c"},
	"glycolic acid":             {"aha"},
	"lactic acid":               {"aha"},
	"mandelic acid":             {"aha"},
	"salicylic acid":            {"bha"},
	"niacinamide":               {"niacinamide"},
	"hyaluronic acid":           {"hyaluronic_acid"},
	"sodium hyaluronate":        {"hyaluronic_acid"},
	"benzoyl peroxide":          {"benzoyl_peroxide"},
	"zinc oxide":                {"spf"},
	"titanium dioxide":          {"spf"},
	"avobenzone":                {"spf"},
	"octinoxate":                {"spf"},
	"copper tripeptide-1":       {"copper_peptides"},
}

// ruleSeed holds the guidance attached to each category tag. usewhen tags
// name the time of day the guidance belongs to.
var ruleSeed = map[string]rules.RuleSet{
	"retinol": {
		Avoid: []rules.Clause{
			{Tag: "vitamin_c", Message: "avoid layering retinol with vitamin C"},
			{Tag: "aha", Message: "avoid combining retinol with exfoliating acids"},
			{Tag: "bha", Message: "avoid combining retinol with exfoliating acids"},
			{Tag: "benzoyl_peroxide", Message: "avoid pairing retinol with benzoyl peroxide"},
		},
		UseWith: []rules.Clause{
			{Tag: "hyaluronic_acid", Message: "pair retinol with a hydrating product to reduce irritation"},
			{Tag: "spf", Message: "retinol increases sun sensitivity, so add a sunscreen"},
		},
		UseWhen: []rules.Clause{
			{Tag: "PM", Message: "retinol degrades in sunlight and works best in an evening routine"},
		},
	},
	"vitamin_c": {
		Avoid: []rules.Clause{
			{Tag: "retinol", Message: "avoid layering vitamin C with retinol"},
			{Tag: "aha", Message: "avoid acids right after vitamin C"},
			{Tag: "bha", Message: "avoid acids right after vitamin C"},
			{Tag: "benzoyl_peroxide", Message: "avoid benzoyl peroxide, which oxidizes vitamin C"},
			{Tag: "copper_peptides", Message: "avoid copper peptides alongside vitamin C"},
		},
		UseWith: []rules.Clause{
			{Tag: "spf", Message: "vitamin C boosts sunscreen protection, so wear them together"},
		},
		UseWhen: []rules.Clause{
			{Tag: "AM", Message: "vitamin C protects against daytime free radicals and suits a morning routine"},
		},
	},
	"aha": {
		Avoid: []rules.Clause{
			{Tag: "retinol", Message: "avoid combining exfoliating acids with retinol"},
			{Tag: "vitamin_c", Message: "avoid vitamin C right after exfoliating acids"},
			{Tag: "bha", Message: "avoid stacking multiple exfoliating acids"},
		},
		UseWith: []rules.Clause{
			{Tag: "spf", Message: "exfoliating acids increase sun sensitivity, so add a sunscreen"},
		},
		UseWhen: []rules.Clause{
			{Tag: "PM", Message: "exfoliating acids are gentler as part of an evening routine"},
		},
	},
	"bha": {
		Avoid: []rules.Clause{
			{Tag: "retinol", Message: "avoid combining exfoliating acids with retinol"},
			{Tag: "aha", Message: "avoid stacking multiple exfoliating acids"},
		},
		UseWith: []rules.Clause{
			{Tag: "spf", Message: "exfoliating acids increase sun sensitivity, so add a sunscreen"},
		},
	},
	"niacinamide": {
		UseWith: []rules.Clause{
			{Tag: "hyaluronic_acid", Message: "niacinamide pairs well with a hyaluronic acid hydrator"},
		},
	},
	"benzoyl_peroxide": {
		Avoid: []rules.Clause{
			{Tag: "retinol", Message: "avoid pairing benzoyl peroxide with retinol"},
			{Tag: "vitamin_c", Message: "avoid vitamin C, which benzoyl peroxide oxidizes"},
		},
	},
	"copper_peptides": {
		Avoid: []rules.Clause{
			{Tag: "vitamin_c", Message: "avoid vitamin C alongside copper peptides"},
			{Tag: "aha", Message: "avoid exfoliating acids alongside copper peptides"},
			{Tag: "bha", Message: "avoid exfoliating acids alongside copper peptides"},
		},
	},
	"spf": {
		UseWhen: []rules.Clause{
			{Tag: "AM", Message: "sunscreen belongs in a morning routine"},
		},
	},
}

// Seed loads the read-only reference data. Safe to run on every startup.
func Seed(conn *gorm.DB) error {
	for ingredient, tags := range ingredientSeed {
		name := rules.Normalize(ingredient)
		var existing models.IngredientCategory
		err := conn.Where("ingredient = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := conn.Create(&models.IngredientCategory{Ingredient: name, Tags: tags}).Error; err != nil {
			return err
		}
	}

	for tag, ruleSet := range ruleSeed {
		var existing models.Rule
		err := conn.Where("tag = ?", tag).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record, err := encodeRule(tag, ruleSet)
		if err != nil {
			return err
		}
		if err := conn.Create(record).Error; err != nil {
			return err
		}
	}

	return nil
}

func encodeRule(tag string, rs rules.RuleSet) (*models.Rule, error) {
	avoid, err := json.Marshal(rs.Avoid)
	if err != nil {
		return nil, err
	}
	useWith, err := json.Marshal(rs.UseWith)
	if err != nil {
		return nil, err
	}
	useWhen, err := json.Marshal(rs.UseWhen)
	if err != nil {
		return nil, err
	}
	return &models.Rule{Tag: tag, Avoid: avoid, UseWith: useWith, UseWhen: useWhen}, nil
}
