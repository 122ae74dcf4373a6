package builtin

// Constitution UIDs. Zero means no constitution was applied.
const (
	AffineBodyUID    uint64 = 1
	FiniteElementUID uint64 = 2
	ParticleUID      uint64 = 3
)

var constitutionNames = map[uint64]string{
	AffineBodyUID:    "AffineBody",
	FiniteElementUID: "FiniteElement",
	ParticleUID:      "Particle",
}

// ConstitutionName returns the builtin name for uid, or "" if unknown.
func ConstitutionName(uid uint64) string {
	return constitutionNames[uid]
}
