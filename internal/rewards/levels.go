package rewards

// LevelForPoints dérive le niveau d'un total de points. Fonction pure,
// définie pour tout entier: un total négatif retombe au niveau 1.
func LevelForPoints(totalPoints int) int {
	switch {
	case totalPoints >= 2000:
		return 5
	case totalPoints >= 1000:
		return 4
	case totalPoints >= 500:
		return 3
	case totalPoints >= 200:
		return 2
	default:
		return 1
	}
}
