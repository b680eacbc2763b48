package rewards

import (
	"errors"
)

var (
	// ErrUserRequired est renvoyée quand une opération à points est appelée
	// sans identité utilisateur. Jamais d'attribution sur une identité vide.
	ErrUserRequired = errors.New("rewards: user id required")

	// ErrActionRequired est renvoyée pour un label d'action vide.
	ErrActionRequired = errors.New("rewards: action required")

	// ErrDuplicateAction est le signal interne du store quand la paire
	// (userId, actionKey) existe déjà dans le ledger. L'Engine la convertit
	// en résultat Duplicate, jamais en erreur pour l'appelant.
	ErrDuplicateAction = errors.New("rewards: duplicate action key")

	// ErrAchievementNotFound est renvoyée par les accesseurs catalogue.
	ErrAchievementNotFound = errors.New("rewards: achievement not found")
)
