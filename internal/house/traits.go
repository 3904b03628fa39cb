package house

// Trait is a fixed-vocabulary personality trait that shapes decisions and trust.
type Trait string

const (
	TraitStrategic       Trait = "Strategic"
	TraitSocial          Trait = "Social"
	TraitLoyal           Trait = "Loyal"
	TraitSneaky          Trait = "Sneaky"
	TraitManipulative    Trait = "Manipulative"
	TraitEmotional       Trait = "Emotional"
	TraitCompetitive     Trait = "Competitive"
	TraitAnalytical      Trait = "Analytical"
	TraitFloater         Trait = "Floater"
	TraitConfrontational Trait = "Confrontational"
)

// AllTraits lists the casting vocabulary in a stable order.
var AllTraits = []Trait{
	TraitStrategic,
	TraitSocial,
	TraitLoyal,
	TraitSneaky,
	TraitManipulative,
	TraitEmotional,
	TraitCompetitive,
	TraitAnalytical,
	TraitFloater,
	TraitConfrontational,
}
