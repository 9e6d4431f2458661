package calculator

const efiSpan = 13

// EFI is the Elder force index: recursive EMA13 of ΔClose·Volume. Row 0 is
// undefined.
func EFI(closes, volume []float64) []float64 {
	force := diff(closes)
	for i := range force {
		force[i] *= volume[i]
	}
	return ewm(force, spanAlpha(efiSpan), false)
}
