package core

// Visible spectrum bounds in nanometres. Photon wavelengths and the
// wavelength-to-color mapping both work within this range.
const (
	MinWavelength = 380.0
	MaxWavelength = 750.0
)
