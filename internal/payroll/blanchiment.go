package payroll

import "github.com/shopspring/decimal"

// SplitProceeds splits a blanchiment amount into the enterprise cut and the
// group cut. Percentages are fractions; both results are rounded to 2 places.
func SplitProceeds(montant, percEntreprise, percGroupe decimal.Decimal) (entreprise, groupe decimal.Decimal) {
	return Round2(montant.Mul(percEntreprise)), Round2(montant.Mul(percGroupe))
}
