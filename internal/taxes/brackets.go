package taxes

import (
	"encoding/json"
	"errors"
	"fmt"

	"flashback-backend/internal/models"
	"flashback-backend/internal/payroll"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// toEngine converts wire brackets (taux 0-100) to engine brackets
// (rate as fraction).
func toEngine(payloads []models.BracketPayload) []payroll.Bracket {
	out := make([]payroll.Bracket, 0, len(payloads))
	for _, p := range payloads {
		b := payroll.Bracket{
			Min:  decimal.NewFromFloat(p.Min),
			Rate: decimal.NewFromFloat(p.Taux).Div(hundred),
		}
		if p.Max != nil {
			max := decimal.NewFromFloat(*p.Max)
			b.Max = &max
		}
		out = append(out, b)
	}
	return out
}

func fromEngine(brackets []payroll.Bracket) []models.BracketPayload {
	out := make([]models.BracketPayload, 0, len(brackets))
	for _, b := range brackets {
		p := models.BracketPayload{
			Min:  b.Min.InexactFloat64(),
			Taux: b.Rate.Mul(hundred).InexactFloat64(),
		}
		if b.Max != nil {
			max := b.Max.InexactFloat64()
			p.Max = &max
		}
		out = append(out, p)
	}
	return out
}

func loadConfig(db *gorm.DB, guildID, entreprise string) (*models.TaxBracket, error) {
	var cfg models.TaxBracket
	err := db.Where("guild_id = ? AND entreprise = ?", guildID, entreprise).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadIncomeBrackets resolves the income ladder for (guildID, entreprise):
// enterprise config, then the guild-wide default (empty entreprise), then
// the built-in ladder.
func LoadIncomeBrackets(db *gorm.DB, guildID, entreprise string) ([]payroll.Bracket, error) {
	for _, scope := range []string{entreprise, ""} {
		cfg, err := loadConfig(db, guildID, scope)
		if err != nil {
			return nil, err
		}
		if cfg == nil || len(cfg.Brackets) == 0 {
			continue
		}
		var payloads []models.BracketPayload
		if err := json.Unmarshal(cfg.Brackets, &payloads); err != nil {
			return nil, fmt.Errorf("brackets payload: %w", err)
		}
		if len(payloads) > 0 {
			return toEngine(payloads), nil
		}
	}
	return payroll.DefaultIncomeBrackets(), nil
}

// LoadWealthTiers resolves the wealth ladder with the same fallback chain.
func LoadWealthTiers(db *gorm.DB, guildID, entreprise string) ([]payroll.Bracket, error) {
	for _, scope := range []string{entreprise, ""} {
		cfg, err := loadConfig(db, guildID, scope)
		if err != nil {
			return nil, err
		}
		if cfg == nil || len(cfg.Wealth) == 0 {
			continue
		}
		var payloads []models.WealthPayload
		if err := json.Unmarshal(cfg.Wealth, &payloads); err != nil {
			return nil, fmt.Errorf("wealth payload: %w", err)
		}
		if len(payloads) > 0 {
			brackets := make([]models.BracketPayload, len(payloads))
			for i, p := range payloads {
				brackets[i] = models.BracketPayload(p)
			}
			return toEngine(brackets), nil
		}
	}
	return payroll.DefaultWealthTiers(), nil
}
